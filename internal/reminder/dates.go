package reminder

import "time"

const day = 24 * time.Hour

// DaysUntil returns the number of calendar days from ref to due. Both values
// are reduced to midnight of their own calendar date before subtracting, so
// time of day and zone offsets never move the result.
func DaysUntil(due, ref time.Time) int {
	return ceilDays(midnight(due).Sub(midnight(ref)))
}

// midnight maps t's calendar date onto a UTC midnight so that the distance
// between two dates is always a whole number of 24h days, DST included.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ceilDays divides d by one day, rounding towards positive infinity.
func ceilDays(d time.Duration) int {
	days := d / day
	if d%day > 0 {
		days++
	}
	return int(days)
}
