package align

import "time"

// DaysPerMonth converts daily rates to monthly rates and back.
const DaysPerMonth = 365.25 / 12

const secondsPerDay = 24 * 60 * 60

// civil truncates t to its UTC calendar day.
func civil(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int((civil(b).Unix() - civil(a).Unix()) / secondsPerDay)
}

// DaysInMonth returns the length of t's calendar month.
func DaysInMonth(t time.Time) int {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// monthStart returns the first day of t's calendar month.
func monthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// monthKey orders calendar months.
func monthKey(t time.Time) int {
	y, m, _ := t.UTC().Date()
	return y*12 + int(m) - 1
}
