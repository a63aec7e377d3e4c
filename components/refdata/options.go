package refdata

import "net/http"

type EmptySearchMode string

const (
	EmptySearchNone EmptySearchMode = "none"
	EmptySearchTop  EmptySearchMode = "top"
)

type GuardFunc func(r *http.Request) error

// Entry is one selectable option in a catalog.
type Entry struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Options struct {
	RoutePath       string
	CatalogParam    string
	SearchParam     string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode
	Guard           GuardFunc

	Catalogs map[string][]Entry
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:       "/api/refdata",
		CatalogParam:    "catalog",
		SearchParam:     "q",
		LimitParam:      "limit",
		DefaultLimit:    50,
		MaxLimit:        200,
		EmptySearchMode: EmptySearchTop,
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
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}
	if opts.EmptySearchMode == "" {
		opts.EmptySearchMode = EmptySearchTop
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/refdata"
	}
	if opts.CatalogParam == "" {
		opts.CatalogParam = "catalog"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	if opts.Catalogs != nil {
		catalogs := make(map[string][]Entry, len(opts.Catalogs))
		for name, entries := range opts.Catalogs {
			catalogs[name] = append([]Entry{}, entries...)
		}
		opts.Catalogs = catalogs
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

func WithCatalogParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CatalogParam = name
	}
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SearchParam = name
	}
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LimitParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxLimit = limit
	}
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.EmptySearchMode = mode
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

// WithCatalog registers or replaces a named catalog.
func WithCatalog(name string, entries []Entry) OptionFn {
	return func(o *Options) {
		if o == nil || name == "" {
			return
		}
		if o.Catalogs == nil {
			o.Catalogs = map[string][]Entry{}
		}
		o.Catalogs[name] = append([]Entry{}, entries...)
	}
}

// WithValues registers a catalog whose labels equal its values.
func WithValues(name string, values []string) OptionFn {
	entries := make([]Entry, 0, len(values))
	for _, value := range values {
		entries = append(entries, Entry{Value: value, Label: value})
	}
	return WithCatalog(name, entries)
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
