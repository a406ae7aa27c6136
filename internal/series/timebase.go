package series

import "time"

// TimeBase returns an evenly spaced timestamp grid covering the trailing
// window of the given length, ending at now floored to the interval
// boundary. The grid has hours*60/intervalMinutes points plus the floored
// current instant, strictly increasing. Deterministic for a fixed now.
func TimeBase(now time.Time, hours, intervalMinutes int) []time.Time {
	aligned := time.Date(
		now.Year(), now.Month(), now.Day(), now.Hour(),
		(now.Minute()/intervalMinutes)*intervalMinutes,
		0, 0, now.Location(),
	)

	total := (hours * 60) / intervalMinutes
	points := make([]time.Time, 0, total+1)
	for i := total; i > 0; i-- {
		points = append(points, aligned.Add(-time.Duration(i*intervalMinutes)*time.Minute))
	}
	points = append(points, aligned)
	return points
}
