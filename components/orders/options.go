package orders

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/goliatone/go-orderentry/internal/logging"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath         string
	TemplateRoutePath string
	Guard             GuardFunc
	Logger            logging.Logger

	// NewID mints order and template ids. Defaults to uuid.NewString.
	NewID func() string

	Store         Store
	TemplateStore TemplateStore
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:         "/api/orders",
		TemplateRoutePath: "/api/order-templates",
		Logger:            logging.Default(),
		NewID:             uuid.NewString,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/orders"
	}
	if opts.TemplateRoutePath == "" {
		opts.TemplateRoutePath = "/api/order-templates"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithTemplateRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.TemplateRoutePath = path
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithLogger(logger logging.Logger) OptionFn {
	return func(o *Options) {
		if o == nil || logger == nil {
			return
		}
		o.Logger = logger
	}
}

func WithIDGenerator(fn func() string) OptionFn {
	return func(o *Options) {
		if o == nil || fn == nil {
			return
		}
		o.NewID = fn
	}
}

func WithStore(store Store) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Store = store
	}
}

func WithTemplateStore(store TemplateStore) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.TemplateStore = store
	}
}
