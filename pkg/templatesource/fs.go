package templatesource

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/internal/normalize"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// FSSource reads template records from a filesystem, one file per
// template. JSON and YAML files are supported; the file's base name is
// the fallback id when the record omits one. Useful for fixtures, local
// development, and the CLI.
type FSSource struct {
	fsys   fs.FS
	root   string
	logger logging.Logger
}

// FSOption configures an FSSource.
type FSOption func(*FSSource)

// WithFSRoot scopes the source to a subdirectory of the filesystem.
func WithFSRoot(root string) FSOption {
	return func(s *FSSource) {
		s.root = strings.Trim(root, "/")
	}
}

// WithFSLogger sets the logger used for normalization warnings.
func WithFSLogger(logger logging.Logger) FSOption {
	return func(s *FSSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFSSource builds a source over fsys.
func NewFSSource(fsys fs.FS, options ...FSOption) *FSSource {
	s := &FSSource{
		fsys:   fsys,
		root:   ".",
		logger: logging.Default(),
	}
	for _, option := range options {
		option(s)
	}
	if s.root == "" {
		s.root = "."
	}
	return s
}

// Active implements Source. Files are visited in name order so listing
// is deterministic.
func (s *FSSource) Active(ctx context.Context) ([]template.Template, error) {
	entries, err := fs.ReadDir(s.fsys, s.root)
	if err != nil {
		return nil, fmt.Errorf("templatesource: read dir %q: %w", s.root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !supportedExt(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	templates := make([]template.Template, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := s.load(name)
		if err != nil {
			return nil, err
		}
		if t.IsActive {
			templates = append(templates, t)
		}
	}
	return templates, nil
}

// Template implements Source. The id matches the file base name without
// extension, or an explicit id inside the record.
func (s *FSSource) Template(ctx context.Context, id string) (template.Template, error) {
	if err := ctx.Err(); err != nil {
		return template.Template{}, err
	}

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		t, err := s.load(id + ext)
		if err == nil {
			return t, nil
		}
	}

	// Fall back to scanning for an embedded id field.
	templates, err := s.Active(ctx)
	if err != nil {
		return template.Template{}, err
	}
	for _, t := range templates {
		if t.ID == id {
			return t, nil
		}
	}
	return template.Template{}, fmt.Errorf("templatesource: %q: %w", id, ErrNotFound)
}

func (s *FSSource) load(name string) (template.Template, error) {
	full := name
	if s.root != "." {
		full = path.Join(s.root, name)
	}

	raw, err := fs.ReadFile(s.fsys, full)
	if err != nil {
		return template.Template{}, fmt.Errorf("templatesource: read %q: %w", full, err)
	}

	base := strings.TrimSuffix(name, path.Ext(name))
	if strings.EqualFold(path.Ext(name), ".json") {
		return s.decodeJSON(raw, base)
	}
	return s.decodeYAML(raw, base)
}

func (s *FSSource) decodeJSON(raw []byte, fallbackID string) (template.Template, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return template.Template{}, fmt.Errorf("templatesource: decode %q: %w", fallbackID, err)
	}
	if rec.ID == "" {
		rec.ID = fallbackID
	}
	return rec.toTemplate(s.logger), nil
}

func (s *FSSource) decodeYAML(raw []byte, fallbackID string) (template.Template, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return template.Template{}, fmt.Errorf("templatesource: decode %q: %w", fallbackID, err)
	}

	t := template.Template{
		ID:       stringField(doc, "id", fallbackID),
		Name:     stringField(doc, "name", fallbackID),
		Type:     template.Type(stringField(doc, "type", "")),
		IsActive: boolField(doc, "isActive", true),
	}

	def := normalize.Definition(doc["fieldsConfig"], t.Type, normalize.WithLogger(s.logger))
	switch def.Kind() {
	case template.TypeGrid:
		grid := def.Grid()
		t.GridConfig = &grid
	default:
		t.Fields = def.Fields()
	}
	return t, nil
}

func supportedExt(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func stringField(doc map[string]any, key, fallback string) string {
	if value, ok := doc[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

func boolField(doc map[string]any, key string, fallback bool) bool {
	if value, ok := doc[key].(bool); ok {
		return value
	}
	return fallback
}
