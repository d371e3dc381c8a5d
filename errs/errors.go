// Package errs defines the sentinel errors shared by the type-curve packages.
//
// Errors fall into two groups. Shape errors (ErrShapeMismatch, ErrInvalidWindow,
// ErrUnsortedIndex) are programmer errors and abort the call. The remaining errors are
// recoverable: callers render a placeholder ("no fit", "N/A") and keep going.
package errs

import "errors"

// Input shape errors.
var (
	ErrShapeMismatch   = errors.New("index and values lengths differ")
	ErrInvalidWindow   = errors.New("data window out of range")
	ErrUnsortedIndex   = errors.New("index is not strictly increasing")
	ErrMissingCalendar = errors.New("series has no calendar origin")
)

// Segment model errors.
var (
	ErrInvalidSegmentModel = errors.New("invalid segment model")
	ErrUnknownFamily       = errors.New("unknown segment family")
	ErrInvalidSegment      = errors.New("invalid segment")
)

// Phase resolution errors.
var (
	ErrMissingBaseFit = errors.New("ratio phase requires a fitted base phase")
	ErrUnknownPhase   = errors.New("unknown phase")
	ErrPhaseMismatch  = errors.New("phase type does not match fit source")
)

// Statistics errors.
var (
	ErrInsufficientWells    = errors.New("no contributing wells")
	ErrDegenerateStatistics = errors.New("not enough distinct values for statistics")
	ErrInvalidStatistic     = errors.New("invalid statistic")
)

// Snapshot errors.
var (
	ErrInvalidSnapshotSize    = errors.New("snapshot too short")
	ErrInvalidSnapshotMagic   = errors.New("invalid snapshot magic")
	ErrInvalidSnapshotVersion = errors.New("unsupported snapshot version")
	ErrSnapshotChecksum       = errors.New("snapshot checksum mismatch")
	ErrInvalidSnapshotPayload = errors.New("invalid snapshot payload")
	ErrHashCollision          = errors.New("series name hash collision")
	ErrDuplicateSeries        = errors.New("duplicate series name")
)

// IsRecoverable reports whether err belongs to the recoverable taxonomy, where
// the caller should render a partial or placeholder result instead of failing.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInvalidSegmentModel) ||
		errors.Is(err, ErrMissingBaseFit) ||
		errors.Is(err, ErrInsufficientWells) ||
		errors.Is(err, ErrDegenerateStatistics)
}
