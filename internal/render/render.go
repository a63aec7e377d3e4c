// Package render holds the template engine shared by the preview
// renderers and the CLI output.
package render

import "io"

// TemplateRenderer renders named templates or inline template strings
// against a data context.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
}
