package orders

import "net/http"

// Component bundles the order and template handlers with their
// configuration and routing helpers.
type Component struct {
	opts Options
}

// New constructs a new component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	opts := NewOptions(fns...)
	return &Component{opts: opts}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// OrdersHandler returns the net/http handler for order submissions.
func (c *Component) OrdersHandler() http.Handler {
	if c == nil {
		return OrdersHandler()
	}
	return ordersHandlerWithOptions(c.opts)
}

// TemplatesHandler returns the net/http handler for template writes.
func (c *Component) TemplatesHandler() http.Handler {
	if c == nil {
		return TemplatesHandler()
	}
	return templatesHandlerWithOptions(c.opts)
}

// RegisterRoutes mounts both handlers under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}
