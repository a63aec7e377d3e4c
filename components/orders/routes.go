package orders

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register net/http handlers.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes mounts the order and template handlers under basePath.
// Returns the order collection mount path.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions mounts handlers using a pre-built Options value.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("orders: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })

	orderPattern := mountPath(basePath, opts.RoutePath)
	templatePattern := mountPath(basePath, opts.TemplateRoutePath)

	// The handlers route on method and trailing id themselves, so both
	// the collection and item paths point at the same handler.
	ordersHandler := ordersHandlerWithOptions(opts)
	mux.Handle(orderPattern, ordersHandler)
	mux.Handle(orderPattern+"/", ordersHandler)

	templatesHandler := templatesHandlerWithOptions(opts)
	mux.Handle(templatePattern, templatesHandler)
	mux.Handle(templatePattern+"/", templatesHandler)

	return orderPattern, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
