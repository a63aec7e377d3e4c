package grid

import "errors"

var (
	// ErrReadOnlyCell is returned when user input targets a read-only column.
	ErrReadOnlyCell = errors.New("grid: cell is read only")

	// ErrTotalRowEdit is returned when user input targets the total row.
	ErrTotalRowEdit = errors.New("grid: total row is not editable")

	// ErrInvalidValue is returned when a write fails cell validation and is
	// reverted.
	ErrInvalidValue = errors.New("grid: invalid cell value")

	// ErrRowOutOfRange is returned for writes outside the current row set.
	ErrRowOutOfRange = errors.New("grid: row index out of range")

	// ErrUnknownColumn is returned for writes to an undeclared data key.
	ErrUnknownColumn = errors.New("grid: unknown column")

	// ErrEngineClosed is returned once the engine has been closed.
	ErrEngineClosed = errors.New("grid: engine is closed")

	// ErrBackendUnavailable is returned when the rendering backend never
	// becomes ready within its wait budget.
	ErrBackendUnavailable = errors.New("grid: rendering backend unavailable")
)
