package core

import "time"

// ElapsedPercentage reports the number of whole days remaining until due
// and the raw percentage of the [handIn, due] window elapsed at now.
//
// The percentage is intentionally NOT clamped to [0, 100]: it can go
// negative when now precedes handIn, and downstream color thresholds
// depend on the raw linear value. Callers clamp for display.
func ElapsedPercentage(handIn, due, now time.Time) (daysRemaining int, percent float64) {
	allocated := secondsBetween(handIn, due)
	remaining := secondsBetween(now, due)
	if allocated == 0 {
		// degenerate zero-length window: fully elapsed
		return 0, 100
	}
	percent = (allocated - remaining) * 100 / allocated
	daysRemaining = int(remaining / 86400)
	return daysRemaining, percent
}

// CountdownComponents decomposes the time between now and due into
// calendar-aware days, hours, minutes and seconds. Month lengths and DST
// shifts are respected (a "day" is AddDate(0, 0, 1), not 24h). All
// components are absolute magnitudes; the caller decides what a past due
// date means.
func CountdownComponents(now, due time.Time) (days, hours, minutes, seconds int) {
	start, end := now, due
	if end.Before(start) {
		start, end = end, start
	}

	cursor := start
	for {
		next := cursor.AddDate(0, 0, 1)
		if next.After(end) {
			break
		}
		cursor = next
		days++
	}

	rem := end.Sub(cursor)
	hours = int(rem / time.Hour)
	rem -= time.Duration(hours) * time.Hour
	minutes = int(rem / time.Minute)
	rem -= time.Duration(minutes) * time.Minute
	seconds = int(rem / time.Second)
	return days, hours, minutes, seconds
}

// DaysAndHoursBetween reports the calendar-aware day and hour difference
// between start and end. Both values are negative when end precedes start.
func DaysAndHoursBetween(start, end time.Time) (days, hours int) {
	sign := 1
	if end.Before(start) {
		sign = -1
	}
	d, h, _, _ := CountdownComponents(start, end)
	return sign * d, sign * h
}

// TruncateSeconds drops the seconds and sub-second components of t.
// Task editors normalize picked dates this way before comparing or
// persisting them.
func TruncateSeconds(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// PreviousMinute drops the seconds components of t and shifts the result
// back one minute. Assessment editors normalize picked dates this way.
func PreviousMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute).Add(-time.Minute)
}

func secondsBetween(start, end time.Time) float64 {
	diff := end.Sub(start).Seconds()
	if diff < 0 {
		return 0
	}
	return diff
}
