package grid

import (
	"time"

	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// DefaultRecomputeDelay is the debounce window for total-row recomputation.
// The value is a tunable constant, not a behavioural contract; it only needs
// to be long enough to coalesce a paste burst into one aggregate pass.
const DefaultRecomputeDelay = 80 * time.Millisecond

// DefaultTotalLabel is what the total row shows in its number cell.
const DefaultTotalLabel = "TOTAL"

// Option customises engine construction.
type Option func(*Options)

// Options carries the engine's tunables. Zero values fall back to the
// procurement defaults.
type Options struct {
	// NameKey is the data key of the designated item-name column. A row with
	// a blank name cell is treated as empty by the line-item pipeline.
	NameKey string

	// NumberKey is the data key of the display-ordinal column.
	NumberKey string

	// TotalLabel is written into the total row's number cell.
	TotalLabel string

	// RecomputeDelay is the debounce window for total-row recomputation.
	// Zero or negative disables debouncing and recomputes synchronously.
	RecomputeDelay time.Duration

	// Logger receives recoverable warnings (unknown validator names, backend
	// mirror failures).
	Logger logging.Logger
}

func defaultOptions() Options {
	return Options{
		NameKey:        template.KeyItemName,
		NumberKey:      template.KeyRowNumber,
		TotalLabel:     DefaultTotalLabel,
		RecomputeDelay: DefaultRecomputeDelay,
		Logger:         logging.Default(),
	}
}

// WithNameKey overrides the designated name column.
func WithNameKey(key string) Option {
	return func(o *Options) {
		if key != "" {
			o.NameKey = key
		}
	}
}

// WithNumberKey overrides the display-ordinal column.
func WithNumberKey(key string) Option {
	return func(o *Options) {
		if key != "" {
			o.NumberKey = key
		}
	}
}

// WithTotalLabel overrides the total row label.
func WithTotalLabel(label string) Option {
	return func(o *Options) {
		if label != "" {
			o.TotalLabel = label
		}
	}
}

// WithRecomputeDelay tunes the debounce window. Pass 0 to recompute
// synchronously after each qualifying commit.
func WithRecomputeDelay(delay time.Duration) Option {
	return func(o *Options) {
		o.RecomputeDelay = delay
	}
}

// WithLogger replaces the default klog-backed logger.
func WithLogger(logger logging.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
