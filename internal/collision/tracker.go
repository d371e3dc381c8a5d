// Package collision tracks series names and their xxhash IDs while a snapshot is
// encoded.
package collision

import (
	"fmt"

	"github.com/combocurve/typecurve/errs"
)

// Tracker records every series name with its ID in encoding order. Two distinct names
// sharing an ID are not an error: the flag is set and readers fall back to matching
// names instead of IDs.
type Tracker struct {
	byID         map[uint64]string
	names        []string
	seen         map[string]struct{}
	hasCollision bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byID: make(map[uint64]string),
		seen: make(map[string]struct{}),
	}
}

// Track records name under id. Empty names return errs.ErrInvalidSnapshotPayload and
// repeated names errs.ErrDuplicateSeries.
func (t *Tracker) Track(name string, id uint64) error {
	if name == "" {
		return fmt.Errorf("%w: empty series name", errs.ErrInvalidSnapshotPayload)
	}
	if _, dup := t.seen[name]; dup {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateSeries, name)
	}
	if existing, ok := t.byID[id]; ok && existing != name {
		t.hasCollision = true
	}

	t.byID[id] = name
	t.seen[name] = struct{}{}
	t.names = append(t.names, name)

	return nil
}

// HasCollision reports whether two tracked names share an ID.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in order.
func (t *Tracker) Names() []string {
	return t.names
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.names)
}

