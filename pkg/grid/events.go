package grid

// WriteSource tags where a cell write originated. Internal writes (derived
// cells, row numbers, the total row) bypass read-only checks and never
// re-trigger dependent recomputation.
type WriteSource string

const (
	WriteUser     WriteSource = "user"
	WriteInternal WriteSource = "internal"
)

// CellState tracks one edit attempt on a cell. Committed transitions back to
// Unedited and may trigger dependent recomputation; Reverted restores the
// prior committed value and is terminal for that attempt.
type CellState string

const (
	CellUnedited  CellState = "unedited"
	CellEditing   CellState = "editing"
	CellCommitted CellState = "committed"
	CellReverted  CellState = "reverted"
)

// ChangeEvent reports a committed cell write.
type ChangeEvent struct {
	Row    int
	Key    string
	Old    any
	New    any
	Source WriteSource
}

// ValidationEvent reports a rejected cell write. The cell keeps Prior.
type ValidationEvent struct {
	Row       int
	Key       string
	Attempted any
	Prior     any
	Reason    string
}

// ChangeListener observes committed writes.
type ChangeListener func(ChangeEvent)

// ValidationListener observes rejected writes.
type ValidationListener func(ValidationEvent)
