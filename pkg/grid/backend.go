package grid

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Backend is the narrow seam to an external spreadsheet-rendering widget.
// Implementations must not invoke the OnChange callback for writes performed
// through SetCell; the callback carries user edits originating in the widget
// only, otherwise mirrored writes would echo forever.
type Backend interface {
	// Ready reports whether the underlying widget is initialised. Engines
	// poll it through WaitReady before first use.
	Ready(ctx context.Context) error
	GetCell(row, col int) (any, error)
	SetCell(row, col int, value any) error
	OnChange(fn func(row, col int, value any))
	Destroy() error
}

// WaitOptions tunes the readiness wait for a backend whose underlying
// dependency loads asynchronously.
type WaitOptions struct {
	// Attempts bounds the number of Ready probes. Zero means 10.
	Attempts int
	// Backoff is the initial delay between probes; it doubles each attempt.
	// Zero means 50ms.
	Backoff time.Duration
}

// WaitReady polls the backend until it reports ready, the attempt budget is
// spent, or the context is cancelled. The returned error wraps
// ErrBackendUnavailable when the budget runs out so callers can fall back to
// the read-only tabular preview.
func WaitReady(ctx context.Context, backend Backend, opts WaitOptions) error {
	if backend == nil {
		return fmt.Errorf("%w: no backend", ErrBackendUnavailable)
	}
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = 10
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 50 * time.Millisecond
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = backend.Ready(ctx)
		if lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, lastErr)
}

// AttachBackend waits for the backend, mirrors the engine's current state
// into it, and wires widget edits back through SetCell. Cell coordinates
// from the widget are positional; they are translated to data keys here.
func (e *Engine) AttachBackend(ctx context.Context, backend Backend, opts WaitOptions) error {
	if err := WaitReady(ctx, backend, opts); err != nil {
		return err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	e.backend = backend
	columns := make([]string, 0, len(e.columns))
	for _, col := range e.columns {
		columns = append(columns, col.DataKey)
	}
	snapshot := make([]map[string]any, len(e.rows))
	for i, row := range e.rows {
		snapshot[i] = cloneRow(row)
	}
	e.mu.Unlock()

	for rowIdx, row := range snapshot {
		for colIdx, key := range columns {
			value, ok := row[key]
			if !ok {
				continue
			}
			if err := backend.SetCell(rowIdx, colIdx, value); err != nil {
				e.opts.Logger.Warningf("grid: backend seed row %d col %d: %v", rowIdx, colIdx, err)
			}
		}
	}

	backend.OnChange(func(row, col int, value any) {
		if col < 0 || col >= len(columns) {
			return
		}
		if err := e.SetCell(row, columns[col], value); err != nil {
			e.opts.Logger.Infof("grid: widget edit rejected row %d col %d: %v", row, col, err)
		}
	})
	return nil
}

// InitGuard serialises construction of a singleton rendering dependency.
// Concurrent mounts take the guard before initialising the widget; the loser
// waits instead of racing to construct a second instance.
type InitGuard struct {
	mu   sync.Mutex
	held bool
	cond *sync.Cond
}

// NewInitGuard returns an unheld guard.
func NewInitGuard() *InitGuard {
	g := &InitGuard{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Acquire blocks until the guard is free or the context is cancelled.
func (g *InitGuard) Acquire(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			g.cond.Broadcast()
		case <-done:
		}
	}()
	defer close(done)

	g.mu.Lock()
	defer g.mu.Unlock()
	for g.held {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	g.held = true
	return nil
}

// Release frees the guard.
func (g *InitGuard) Release() {
	g.mu.Lock()
	g.held = false
	g.mu.Unlock()
	g.cond.Broadcast()
}
