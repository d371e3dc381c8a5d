package cumulative

import (
	"errors"
	"fmt"
)

// LifeDays is the longest horizon of DefaultSchedule: 60 years.
const LifeDays = 21915

// Step emits a grid point every Every days until the relative offset Until.
type Step struct {
	Until int `json:"until" yaml:"until"`
	Every int `json:"every" yaml:"every"`
}

// Schedule is a piecewise-uniform relative time grid, dense near zero.
type Schedule []Step

// DefaultSchedule is daily for 100 days, every 2 days to 300, then every 30 days to the
// end of LifeDays.
var DefaultSchedule = Schedule{
	{Until: 100, Every: 1},
	{Until: 300, Every: 2},
	{Until: LifeDays, Every: 30},
}

var errInvalidSchedule = errors.New("invalid cumulative schedule")

// Validate requires positive steps and strictly increasing limits.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no steps", errInvalidSchedule)
	}
	prev := 0
	for i, st := range s {
		if st.Every <= 0 {
			return fmt.Errorf("%w: step %d has non-positive interval %d", errInvalidSchedule, i, st.Every)
		}
		if st.Until <= prev {
			return fmt.Errorf("%w: step %d limit %d not after %d", errInvalidSchedule, i, st.Until, prev)
		}
		prev = st.Until
	}

	return nil
}

// Offsets expands the schedule into relative offsets starting at 0.
func (s Schedule) Offsets() []int {
	if len(s) == 0 {
		return []int{0}
	}

	out := make([]int, 0, s.size())
	t := 0
	out = append(out, t)
	for _, st := range s {
		for t+st.Every <= st.Until {
			t += st.Every
			out = append(out, t)
		}
	}

	return out
}

// Horizon returns the last relative offset of the schedule.
func (s Schedule) Horizon() int {
	offsets := s.Offsets()
	return offsets[len(offsets)-1]
}

func (s Schedule) size() int {
	n, prev := 1, 0
	for _, st := range s {
		if st.Every > 0 && st.Until > prev {
			n += (st.Until-prev)/st.Every + 1
			prev = st.Until
		}
	}

	return n
}
