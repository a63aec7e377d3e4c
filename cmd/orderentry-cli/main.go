// Command orderentry-cli fills an order template interactively in the
// terminal and writes the resulting line items and an HTML preview.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	orderentry "github.com/goliatone/go-orderentry"
	"github.com/goliatone/go-orderentry/pkg/lineitem"
	"github.com/goliatone/go-orderentry/pkg/prompt"
	"github.com/goliatone/go-orderentry/pkg/renderers/tabular"
	"github.com/goliatone/go-orderentry/pkg/surface"
	"github.com/goliatone/go-orderentry/pkg/templatesource"
)

type cliConfig struct {
	Source struct {
		Kind string `yaml:"kind"` // "fs" or "http"
		Path string `yaml:"path"` // directory for fs, base URL for http
	} `yaml:"source"`
	TemplateID string `yaml:"templateId"`
	Preview    string `yaml:"preview"` // HTML preview output path
	Output     string `yaml:"output"`  // line item JSON output path, stdout if empty
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	sourcePath := flag.String("source", ".", "template directory or base URL")
	templateID := flag.String("template", "", "template id to fill")
	preview := flag.String("preview", "", "HTML preview output file")
	output := flag.String("output", "", "line item JSON output file (stdout if empty)")
	flag.Parse()

	cfg := loadConfig(*configPath)
	if *sourcePath != "." || cfg.Source.Path == "" {
		cfg.Source.Path = *sourcePath
	}
	if *templateID != "" {
		cfg.TemplateID = *templateID
	}
	if *preview != "" {
		cfg.Preview = *preview
	}
	if *output != "" {
		cfg.Output = *output
	}
	if cfg.TemplateID == "" {
		log.Fatalf("a template id is required (-template or config templateId)")
	}

	ctx := context.Background()

	source := buildSource(cfg)
	tmpl, err := source.Template(ctx, cfg.TemplateID)
	if err != nil {
		log.Fatalf("load template %q: %v", cfg.TemplateID, err)
	}

	dispatcher := orderentry.NewDispatcher()
	mounted, err := dispatcher.Mount(tmpl)
	if err != nil {
		log.Fatalf("mount template: %v", err)
	}
	defer dispatcher.Unmount()

	driver := prompt.NewSurveyDriver()

	switch s := mounted.(type) {
	case *surface.GridSurface:
		if err := prompt.FillGrid(ctx, driver, s.Engine()); err != nil {
			fatalUnlessAborted(err)
		}
		if cfg.Preview != "" {
			writePreview(ctx, cfg.Preview, tmpl.Name, s)
		}
	case *surface.GeneralSurface:
		if err := prompt.FillForm(ctx, driver, s.Form()); err != nil {
			fatalUnlessAborted(err)
		}
	}

	items, err := mounted.LineItems()
	if err != nil && !errors.Is(err, lineitem.ErrNoLineItems) {
		log.Fatalf("extract line items: %v", err)
	}

	writeResult(cfg.Output, mounted, items)
}

func loadConfig(path string) cliConfig {
	var cfg cliConfig
	if path == "" {
		return cfg
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read config: %v", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		log.Fatalf("parse config: %v", err)
	}
	return cfg
}

func buildSource(cfg cliConfig) templatesource.Source {
	path := strings.TrimSpace(cfg.Source.Path)
	if cfg.Source.Kind == "http" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		source, err := templatesource.NewHTTPSource(path)
		if err != nil {
			log.Fatalf("template source: %v", err)
		}
		return source
	}
	return templatesource.NewFSSource(os.DirFS(path))
}

func writePreview(ctx context.Context, path, title string, s *surface.GridSurface) {
	renderer, err := tabular.New()
	if err != nil {
		log.Fatalf("preview renderer: %v", err)
	}
	html, err := renderer.Render(ctx, tabular.SnapshotFromEngine(s.Engine(), title))
	if err != nil {
		log.Fatalf("render preview: %v", err)
	}
	if err := os.WriteFile(path, html, 0o644); err != nil {
		log.Fatalf("write preview: %v", err)
	}
	fmt.Printf("Preview written to %s\n", path)
}

func writeResult(path string, mounted surface.Surface, items []lineitem.OrderLineItem) {
	if items == nil {
		items = []lineitem.OrderLineItem{}
	}
	result := struct {
		CustomFields map[string]any           `json:"customFields,omitempty"`
		Items        []lineitem.OrderLineItem `json:"items"`
		TotalAmount  float64                  `json:"totalAmount"`
	}{
		CustomFields: mounted.CustomFields(),
		Items:        items,
		TotalAmount:  lineitem.Total(items),
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}

	if path == "" {
		fmt.Println(string(encoded))
		return
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	fmt.Printf("Order written to %s\n", path)
}

func fatalUnlessAborted(err error) {
	if errors.Is(err, prompt.ErrAborted) {
		fmt.Println("aborted")
		os.Exit(1)
	}
	log.Fatalf("fill: %v", err)
}
