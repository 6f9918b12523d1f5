package schedule

import "time"

// OccurrencesFrom returns the next count occurrence dates of the rule,
// anchored at start. The sequence first catches up from start to the first
// occurrence not before now, then emits count dates at the rule's cadence.
// A start already in the future is emitted as-is. The result is strictly
// increasing; count <= 0 yields nil.
func OccurrencesFrom(start time.Time, rule Rule, count int, now time.Time) []time.Time {
	if count <= 0 {
		return nil
	}

	current := start
	for current.Before(now) {
		current = rule.Next(current)
	}

	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, current)
		current = rule.Next(current)
	}
	return dates
}

// MaturityDate returns start advanced by totalPeriods occurrences of the
// rule. The whole span is added in one step, so a month-based rule anchored
// at the 31st does not drift through short months the way repeated
// single-period addition would.
func MaturityDate(start time.Time, rule Rule, totalPeriods int) time.Time {
	if totalPeriods <= 0 {
		return start
	}
	months, days := rule.step()
	return start.AddDate(0, months*totalPeriods, days*totalPeriods)
}
