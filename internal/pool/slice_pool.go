// Package pool holds sync.Pool backed scratch buffers for the hot loops of the
// aggregator and the snapshot encoder.
package pool

import "sync"

var float64SlicePool = sync.Pool{
	New: func() any { return &[]float64{} },
}

// GetFloat64Slice returns a float64 slice of exactly size elements and a cleanup
// function that hands it back to the pool. Contents are not zeroed.
//
// Example:
//
//	column, release := pool.GetFloat64Slice(len(wells))
//	defer release()
func GetFloat64Slice(size int) ([]float64, func()) {
	ptr, _ := float64SlicePool.Get().(*[]float64)
	if cap(*ptr) < size {
		*ptr = make([]float64, size)
	}
	*ptr = (*ptr)[:size]

	return *ptr, func() { float64SlicePool.Put(ptr) }
}

