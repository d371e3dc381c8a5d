// Package align moves well series onto a common time axis and granularity.
//
// Alignment has two modes. ModeAlign subtracts an anchor from every offset: the first
// sample for rate phases, the in-window peak for ratio phases (see AnchorFor).
// ModeNoAlign re-expresses offsets against the earliest calendar origin of the well
// set. Both are idempotent.
//
// Monthly resampling has two distinct semantics, kept as separate functions:
// ResampleVolume for volume-per-month (calendar-weighted by days in month) and
// ResampleRate for rate display (fixed DaysPerMonth factor).
package align
