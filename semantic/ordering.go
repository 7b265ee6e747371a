package semantic

import (
	"github.com/pkg/errors"

	"github.com/saneql/saneql/algebra"
)

// OrderingInfo tracks the collation and sort direction attached to a
// scalar value by asc, desc and collate.
type OrderingInfo struct {
	collate    algebra.Collate
	descending bool
}

func defaultOrder() OrderingInfo {
	return OrderingInfo{}
}

func (o *OrderingInfo) markAscending()  { o.descending = false }
func (o *OrderingInfo) markDescending() { o.descending = true }

func (o OrderingInfo) isDescending() bool       { return o.descending }
func (o OrderingInfo) getCollate() algebra.Collate { return o.collate }

func (o *OrderingInfo) setCollate(collate algebra.Collate) { o.collate = collate }

// lookupCollate resolves a collation by name. There is no collation
// catalog yet, every name is rejected.
func lookupCollate(name string) (algebra.Collate, error) {
	return algebra.CollateNone, errors.Errorf("unknown collate '%s'", name)
}

// unifyCollate merges the collate specifications of two values.
func unifyCollate(a, b OrderingInfo) (OrderingInfo, error) {
	if a.getCollate() != b.getCollate() {
		return OrderingInfo{}, errors.New("collate mismatch")
	}
	return a, nil
}
