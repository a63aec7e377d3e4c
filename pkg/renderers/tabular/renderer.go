// Package tabular renders a read-only HTML table preview of a populated
// grid. It is the fallback surface when no interactive spreadsheet
// widget is available, and doubles as a print/export view.
package tabular

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-orderentry/internal/render"
	"github.com/goliatone/go-orderentry/internal/render/gotemplate"
	"github.com/goliatone/go-orderentry/pkg/grid"
)

// Snapshot is the immutable table state handed to Render. Cell values
// are already stringified; sanitization happens at render time.
type Snapshot struct {
	Title    string
	Headers  []string
	Rows     [][]string
	TotalRow []string
}

// SnapshotFromEngine captures the engine's current rows, including the
// total row, as display strings. Numeric cells in the amount column keep
// two decimal places.
func SnapshotFromEngine(engine *grid.Engine, title string) Snapshot {
	headers := engine.Headers()
	columns := engine.Columns()
	amountKey := engine.AmountKey()

	snap := Snapshot{Title: title, Headers: headers}
	for i := 0; i < engine.RowCount(); i++ {
		values, ok := engine.RowValues(i)
		if !ok {
			continue
		}
		cells := make([]string, len(values))
		for col, value := range values {
			money := col < len(columns) && columns[col].DataKey == amountKey
			cells[col] = displayValue(value, money)
		}
		if i == engine.TotalRowIndex() {
			snap.TotalRow = cells
		} else {
			snap.Rows = append(snap.Rows, cells)
		}
	}
	return snap
}

func displayValue(value any, money bool) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		if money {
			return strconv.FormatFloat(typed, 'f', 2, 64)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return displayValue(float64(typed), money)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return fmt.Sprintf("%v", typed)
	}
}

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer render.TemplateRenderer
	theme            *theme.RendererConfig
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer render.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies a theme configuration; its CSS variables are emitted
// as a :root style block in the preview document.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// Renderer produces sanitized HTML previews.
type Renderer struct {
	templates render.TemplateRenderer
	theme     *theme.RendererConfig
	policy    *bluemonday.Policy
}

// New constructs the tabular renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("tabular renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		theme:     cfg.theme,
		policy:    bluemonday.StrictPolicy(),
	}, nil
}

func (r *Renderer) Name() string {
	return "tabular"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the preview document. Cell and header text is run
// through a strict sanitizer first so template data from a backend can
// never inject markup.
func (r *Renderer) Render(ctx context.Context, snap Snapshot) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("tabular renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate("templates/preview.tmpl", map[string]any{
		"title":       r.sanitize(snap.Title),
		"headers":     r.sanitizeAll(snap.Headers),
		"rows":        r.sanitizeRows(snap.Rows),
		"total":       r.sanitizeAll(snap.TotalRow),
		"theme_style": themeStyle(r.theme),
	})
	if err != nil {
		return nil, fmt.Errorf("tabular renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) sanitize(s string) string {
	return r.policy.Sanitize(s)
}

func (r *Renderer) sanitizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = r.sanitize(value)
	}
	return out
}

func (r *Renderer) sanitizeRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = r.sanitizeAll(row)
	}
	return out
}

func themeStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(cfg.CSSVars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
