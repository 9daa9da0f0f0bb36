package service

import "time"

// Delta and growth math for rotation. All helpers propagate nil: a missing
// operand yields a nil result, never zero, since zero is a legitimate real
// delta. Division by a zero day span yields nil rather than an error.

const secondsPerDay = 24 * 3600

// daysBetween returns the fractional days elapsed from previous to current,
// or nil when there is no previous observation.
func daysBetween(current time.Time, previous *time.Time) *float64 {
	if previous == nil {
		return nil
	}
	days := current.Sub(*previous).Seconds() / secondsPerDay
	return &days
}

// int64Delta returns current minus previous. Deltas are signed: a metric can
// shrink, e.g. likes removed by moderation.
func int64Delta(current, previous *int64) *int64 {
	if current == nil || previous == nil {
		return nil
	}
	delta := *current - *previous
	return &delta
}

func float64Delta(current, previous *float64) *float64 {
	if current == nil || previous == nil {
		return nil
	}
	delta := *current - *previous
	return &delta
}

// growthPerDay normalizes an integer delta by the elapsed days.
func growthPerDay(delta *int64, days *float64) *float64 {
	if delta == nil || days == nil || *days == 0 {
		return nil
	}
	growth := float64(*delta) / *days
	return &growth
}

// growthPerDayFloat normalizes a float delta by the elapsed days.
func growthPerDayFloat(delta *float64, days *float64) *float64 {
	if delta == nil || days == nil || *days == 0 {
		return nil
	}
	growth := *delta / *days
	return &growth
}
