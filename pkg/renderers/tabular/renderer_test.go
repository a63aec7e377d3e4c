package tabular

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/pkg/grid"
	"github.com/goliatone/go-orderentry/pkg/template"
)

func populatedEngine(t *testing.T) *grid.Engine {
	t.Helper()
	engine, err := grid.New(template.DefaultGridConfig(),
		grid.WithLogger(logging.Nop()), grid.WithRecomputeDelay(0))
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	for _, write := range []struct {
		row   int
		key   string
		value any
	}{
		{0, template.KeyItemName, "Cement"},
		{0, template.KeyQuantity, 5},
		{0, template.KeyUnitPrice, 1000},
		{1, template.KeyItemName, "Rebar"},
		{1, template.KeyQuantity, 2},
		{1, template.KeyUnitPrice, 250},
	} {
		if err := engine.SetCell(write.row, write.key, write.value); err != nil {
			t.Fatalf("SetCell(%d, %s): %v", write.row, write.key, err)
		}
	}
	return engine
}

func TestSnapshotFromEngine(t *testing.T) {
	engine := populatedEngine(t)
	snap := SnapshotFromEngine(engine, "Purchase Order")

	if len(snap.Headers) != len(engine.Headers()) {
		t.Fatalf("headers = %v", snap.Headers)
	}
	if len(snap.Rows) != 10 {
		t.Fatalf("expected 10 data rows, got %d", len(snap.Rows))
	}
	if snap.TotalRow == nil {
		t.Fatalf("total row missing")
	}
	joined := strings.Join(snap.TotalRow, "|")
	if !strings.Contains(joined, "5500.00") {
		t.Fatalf("total row missing summed amount: %v", snap.TotalRow)
	}
}

func TestRenderPreview(t *testing.T) {
	engine := populatedEngine(t)
	renderer, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	html, err := renderer.Render(context.Background(), SnapshotFromEngine(engine, "Purchase Order"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	doc := string(html)
	for _, want := range []string{"Purchase Order", "Cement", "Rebar", "5500.00", "<table"} {
		if !strings.Contains(doc, want) {
			t.Fatalf("rendered preview missing %q:\n%s", want, doc)
		}
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", renderer.ContentType())
	}
}

func TestRenderSanitizesCellMarkup(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	snap := Snapshot{
		Title:    "Preview",
		Headers:  []string{"Name"},
		Rows:     [][]string{{`<script>alert("x")</script>steel`}},
		TotalRow: []string{"TOTAL"},
	}
	html, err := renderer.Render(context.Background(), snap)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Fatalf("script tag survived sanitization:\n%s", html)
	}
	if !strings.Contains(string(html), "steel") {
		t.Fatalf("cell text stripped entirely:\n%s", html)
	}
}

func TestRenderAppliesThemeVars(t *testing.T) {
	renderer, err := New(WithTheme(&theme.RendererConfig{
		Theme:   "procurement",
		CSSVars: map[string]string{"--oe-border": "#999"},
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	html, err := renderer.Render(context.Background(), Snapshot{Title: "Themed"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(html), "--oe-border: #999;") {
		t.Fatalf("theme vars missing:\n%s", html)
	}
}
