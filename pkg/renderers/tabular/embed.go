package tabular

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle so callers can build
// their own engine or override individual templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
