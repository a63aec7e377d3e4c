// Package grid implements the spreadsheet-style entry surface: cell storage
// keyed by column data keys, derived-cell recomputation, a read-only total
// row, row insertion and numbering, and per-cell validation with revert.
//
// The engine owns no rendering. An optional Backend mirrors committed cell
// writes into an external spreadsheet widget through a narrow seam, so all of
// the behaviour here is testable without one.
package grid

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-orderentry/pkg/template"
)

type cellRef struct {
	row int
	key string
}

// CellWrite is one entry of a batch write.
type CellWrite struct {
	Row   int
	Key   string
	Value any
}

type pendingEvents struct {
	changes     []ChangeEvent
	validations []ValidationEvent
}

// Engine is the structured grid editor for one template-driven entry
// session. Cell mutation is cooperative (one user event at a time), but the
// debounce timer fires on a runtime goroutine, so state is guarded by a
// mutex. Listeners run outside the lock; re-entrant calls from a listener are
// safe.
type Engine struct {
	mu sync.Mutex

	opts       Options
	columns    []template.GridColumn
	headers    []string
	colIndex   map[string]int
	validators map[string][]Validator

	amountKey     string
	amountFormula formula

	rows     []map[string]any
	totalRow int
	states   map[cellRef]CellState

	timer      *time.Timer
	generation uint64
	closed     bool

	changeListeners     []ChangeListener
	validationListeners []ValidationListener

	backend Backend
}

// New constructs an engine from a validated grid config. The working row set
// is created fresh: RowsCount blank data rows followed by the total row.
func New(cfg template.GridConfig, options ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("grid: invalid config: %w", err)
	}

	opts := defaultOptions()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}

	e := &Engine{
		opts:       opts,
		columns:    append([]template.GridColumn(nil), cfg.Columns...),
		headers:    append([]string(nil), cfg.ColHeaders...),
		colIndex:   make(map[string]int, len(cfg.Columns)),
		validators: make(map[string][]Validator, len(cfg.Columns)),
		states:     make(map[cellRef]CellState),
	}

	for i, col := range e.columns {
		e.colIndex[col.DataKey] = i
		if col.Type == template.ColumnTypeNumeric {
			e.validators[col.DataKey] = append(e.validators[col.DataKey], validateNumeric)
		}
		if name, ok := cfg.ValidationRules[col.DataKey]; ok {
			if v, found := LookupValidator(name); found {
				e.validators[col.DataKey] = append(e.validators[col.DataKey], v)
			} else {
				opts.Logger.Warningf("grid: unknown validator %q for column %q, ignoring", name, col.DataKey)
			}
		}
	}

	if idx := cfg.AmountColumn(); idx >= 0 {
		parsed, err := parseFormula(cfg.Columns[idx].Formula)
		if err != nil {
			return nil, err
		}
		for _, operand := range parsed.operands {
			if _, ok := e.colIndex[operand]; !ok {
				return nil, fmt.Errorf("grid: formula operand %q is not a declared column", operand)
			}
		}
		e.amountKey = cfg.Columns[idx].DataKey
		e.amountFormula = parsed
	}

	for i := 0; i < cfg.RowsCount; i++ {
		e.rows = append(e.rows, make(map[string]any))
	}
	total := make(map[string]any)
	total[opts.NumberKey] = opts.TotalLabel
	if e.amountKey != "" {
		total[e.amountKey] = 0.0
	}
	e.rows = append(e.rows, total)
	e.totalRow = len(e.rows) - 1

	return e, nil
}

// OnChange registers a listener for committed writes, both user and
// engine-internal.
func (e *Engine) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.changeListeners = append(e.changeListeners, fn)
	e.mu.Unlock()
}

// OnValidation registers a listener for rejected writes.
func (e *Engine) OnValidation(fn ValidationListener) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.validationListeners = append(e.validationListeners, fn)
	e.mu.Unlock()
}

// SetCell attempts a user write. Writes to read-only columns and to the
// total row are rejected outright; values failing the column's validators
// are reverted, leaving the prior committed value in place and raising a
// validation event. Committed writes to a dependency of the amount formula
// recompute the row's amount and schedule a debounced total-row pass.
func (e *Engine) SetCell(row int, key string, value any) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	var pending pendingEvents
	err := e.setCellLocked(row, key, value, WriteUser, &pending)
	e.mu.Unlock()
	e.dispatch(pending)
	return err
}

// SetCells applies a batch of user writes, for example a paste. Individual
// failures revert their own cell and are reported joined; the rest of the
// batch still applies. The debounce coalesces the whole batch into one
// total-row pass.
func (e *Engine) SetCells(writes []CellWrite) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	var pending pendingEvents
	var errs []error
	for _, w := range writes {
		if err := e.setCellLocked(w.Row, w.Key, w.Value, WriteUser, &pending); err != nil {
			errs = append(errs, fmt.Errorf("row %d column %q: %w", w.Row, w.Key, err))
		}
	}
	e.mu.Unlock()
	e.dispatch(pending)
	return errors.Join(errs...)
}

func (e *Engine) setCellLocked(row int, key string, value any, source WriteSource, pending *pendingEvents) error {
	if row < 0 || row >= len(e.rows) {
		return ErrRowOutOfRange
	}
	idx, ok := e.colIndex[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}

	ref := cellRef{row: row, key: key}

	if source == WriteUser {
		if e.columns[idx].ReadOnly {
			return fmt.Errorf("%w: column %q", ErrReadOnlyCell, key)
		}
		if row == e.totalRow {
			return ErrTotalRowEdit
		}

		e.states[ref] = CellEditing
		for _, validate := range e.validators[key] {
			if err := validate(value); err != nil {
				e.states[ref] = CellReverted
				pending.validations = append(pending.validations, ValidationEvent{
					Row:       row,
					Key:       key,
					Attempted: value,
					Prior:     e.rows[row][key],
					Reason:    err.Error(),
				})
				return fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
		}
	}

	old := e.rows[row][key]
	e.rows[row][key] = value
	e.states[ref] = CellUnedited
	pending.changes = append(pending.changes, ChangeEvent{Row: row, Key: key, Old: old, New: value, Source: source})

	if source == WriteUser {
		e.cellCommittedLocked(row, key, old, value, pending)
	}
	return nil
}

// cellCommittedLocked runs the dependent-cell rules after a user commit:
// amount recomputation for formula dependencies, and ordinal assignment when
// the name cell goes from blank to non-blank. Both writes take the internal
// path so they never re-enter this hook.
func (e *Engine) cellCommittedLocked(row int, key string, old, value any, pending *pendingEvents) {
	if e.amountKey != "" && e.amountFormula.dependsOn(key) {
		amount := e.amountFormula.eval(func(operand string) any { return e.rows[row][operand] })
		_ = e.setCellLocked(row, e.amountKey, amount, WriteInternal, pending)
		e.scheduleRecomputeLocked(pending)
	}

	if key == e.opts.NameKey && isBlank(old) && !isBlank(value) {
		if _, ok := e.colIndex[e.opts.NumberKey]; ok {
			_ = e.setCellLocked(row, e.opts.NumberKey, row+1, WriteInternal, pending)
		}
	}
}

// scheduleRecomputeLocked coalesces total-row recomputation. Each qualifying
// commit restarts the window; the pass runs once when edits stop. With no
// delay configured the pass runs inline.
func (e *Engine) scheduleRecomputeLocked(pending *pendingEvents) {
	if e.opts.RecomputeDelay <= 0 {
		e.recomputeTotalLocked(pending)
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	gen := e.generation
	e.timer = time.AfterFunc(e.opts.RecomputeDelay, func() {
		e.mu.Lock()
		if e.closed || gen != e.generation {
			e.mu.Unlock()
			return
		}
		var late pendingEvents
		e.recomputeTotalLocked(&late)
		e.mu.Unlock()
		e.dispatch(late)
	})
}

// RecomputeTotalRow forces an immediate aggregate pass, cancelling any
// pending debounced one.
func (e *Engine) RecomputeTotalRow() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	var pending pendingEvents
	e.recomputeTotalLocked(&pending)
	e.mu.Unlock()
	e.dispatch(pending)
}

func (e *Engine) recomputeTotalLocked(pending *pendingEvents) {
	if e.amountKey == "" {
		return
	}
	sum := 0.0
	for i, row := range e.rows {
		if i == e.totalRow {
			continue
		}
		if n, ok := parseNumber(row[e.amountKey]); ok {
			sum += n
		}
	}
	_ = e.setCellLocked(e.totalRow, e.amountKey, sum, WriteInternal, pending)
}

// InsertRow inserts a blank row immediately before the total row and returns
// its index. The total row shifts down by one and keeps its label.
func (e *Engine) InsertRow() (int, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return 0, ErrEngineClosed
	}

	blank := make(map[string]any)
	e.rows = append(e.rows, nil)
	copy(e.rows[e.totalRow+1:], e.rows[e.totalRow:])
	e.rows[e.totalRow] = blank
	inserted := e.totalRow
	e.totalRow++
	e.rows[e.totalRow][e.opts.NumberKey] = e.opts.TotalLabel

	e.mu.Unlock()
	return inserted, nil
}

// Load replaces the data rows with the given records, for example when
// editing a previously saved order. Amounts and ordinals are derived and the
// total row recomputed synchronously.
func (e *Engine) Load(records []map[string]any) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}

	e.rows = e.rows[:0]
	var pending pendingEvents
	for i, record := range records {
		row := make(map[string]any, len(record))
		for key, value := range record {
			if _, ok := e.colIndex[key]; ok {
				row[key] = value
			}
		}
		if e.amountKey != "" {
			row[e.amountKey] = e.amountFormula.eval(func(operand string) any { return row[operand] })
		}
		if !isBlank(row[e.opts.NameKey]) {
			row[e.opts.NumberKey] = i + 1
		}
		e.rows = append(e.rows, row)
	}
	total := make(map[string]any)
	total[e.opts.NumberKey] = e.opts.TotalLabel
	e.rows = append(e.rows, total)
	e.totalRow = len(e.rows) - 1
	e.recomputeTotalLocked(&pending)

	e.mu.Unlock()
	e.dispatch(pending)
	return nil
}

// Close discards the working state: the pending debounced recomputation is
// cancelled, not flushed, and further writes fail with ErrEngineClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.generation++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	backend := e.backend
	e.backend = nil
	e.mu.Unlock()

	if backend != nil {
		if err := backend.Destroy(); err != nil {
			e.opts.Logger.Warningf("grid: backend destroy: %v", err)
		}
	}
	return nil
}

// CellValue returns the current committed value of a cell.
func (e *Engine) CellValue(row int, key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if row < 0 || row >= len(e.rows) {
		return nil, false
	}
	value, ok := e.rows[row][key]
	return value, ok
}

// StateOf reports the terminal state of the last edit attempt on a cell.
func (e *Engine) StateOf(row int, key string) CellState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if state, ok := e.states[cellRef{row: row, key: key}]; ok {
		return state
	}
	return CellUnedited
}

// TotalRowIndex returns the current index of the total row.
func (e *Engine) TotalRowIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalRow
}

// RowCount returns the number of rows including the total row.
func (e *Engine) RowCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.rows)
}

// DataRows returns copies of all rows except the total row.
func (e *Engine) DataRows() []map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]map[string]any, 0, len(e.rows)-1)
	for i, row := range e.rows {
		if i == e.totalRow {
			continue
		}
		out = append(out, cloneRow(row))
	}
	return out
}

// Rows returns copies of every row including the total row.
func (e *Engine) Rows() []map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]map[string]any, len(e.rows))
	for i, row := range e.rows {
		out[i] = cloneRow(row)
	}
	return out
}

// RowValues maps a row record onto the positional column order. This is the
// only place keyed records become positional arrays; everything internal
// stays keyed.
func (e *Engine) RowValues(row int) ([]any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if row < 0 || row >= len(e.rows) {
		return nil, false
	}
	out := make([]any, len(e.columns))
	for i, col := range e.columns {
		out[i] = e.rows[row][col.DataKey]
	}
	return out, true
}

// Headers returns the column headers.
func (e *Engine) Headers() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.headers...)
}

// Columns returns the column definitions.
func (e *Engine) Columns() []template.GridColumn {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]template.GridColumn(nil), e.columns...)
}

// TotalAmount returns the total row's amount cell, zero when the grid has no
// computed column.
func (e *Engine) TotalAmount() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.amountKey == "" {
		return 0
	}
	n, _ := parseNumber(e.rows[e.totalRow][e.amountKey])
	return n
}

// NameKey returns the designated name column's data key.
func (e *Engine) NameKey() string { return e.opts.NameKey }

// AmountKey returns the computed column's data key, empty when none.
func (e *Engine) AmountKey() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.amountKey
}

func (e *Engine) dispatch(pending pendingEvents) {
	if len(pending.changes) == 0 && len(pending.validations) == 0 {
		return
	}

	e.mu.Lock()
	changeListeners := append([]ChangeListener(nil), e.changeListeners...)
	validationListeners := append([]ValidationListener(nil), e.validationListeners...)
	backend := e.backend
	colIndex := e.colIndex
	e.mu.Unlock()

	for _, ev := range pending.changes {
		for _, fn := range changeListeners {
			fn(ev)
		}
		if backend != nil {
			if err := backend.SetCell(ev.Row, colIndex[ev.Key], ev.New); err != nil {
				e.opts.Logger.Warningf("grid: backend mirror row %d column %q: %v", ev.Row, ev.Key, err)
			}
		}
	}
	for _, ev := range pending.validations {
		for _, fn := range validationListeners {
			fn(ev)
		}
	}
}

func cloneRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
