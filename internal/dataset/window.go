package dataset

import "github.com/driftwatch-systems/driftwatch/internal/drift"

// Windows slices a table into a reference window (the first referenceSize
// rows) and a current window (the last currentSize rows), both in original
// order. The windows may overlap: each size only has to fit the table on
// its own, since the two windows represent possibly-overlapping
// observation periods.
func Windows(t *Table, referenceSize, currentSize int) (*Table, *Table, error) {
	if referenceSize <= 0 {
		return nil, nil, drift.NewValidationError("reference size must be greater than 0")
	}
	if currentSize <= 0 {
		return nil, nil, drift.NewValidationError("current size must be greater than 0")
	}
	n := t.Len()
	if referenceSize > n {
		return nil, nil, drift.NewValidationError("reference size (%d) exceeds table size (%d)", referenceSize, n)
	}
	if currentSize > n {
		return nil, nil, drift.NewValidationError("current size (%d) exceeds table size (%d)", currentSize, n)
	}

	return t.Head(referenceSize), t.Tail(currentSize), nil
}
