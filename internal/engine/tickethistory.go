package engine

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/opsdash/platform-pulse/internal/series"
)

// TicketHistory simulates the daily ticket trend for one platform (empty
// id means all platforms). The series drifts toward the real current count
// and pins its final point to it, so the graph always ends at reality.
func (e *Engine) TicketHistory(platformID string, now time.Time, days int) TicketHistory {
	var current, breached int
	for _, t := range e.provider.Tickets() {
		if !t.Active {
			continue
		}
		if platformID != "" && t.Platform != platformID {
			continue
		}
		current++
		if t.Breached {
			breached++
		}
	}

	rng := rand.New(rand.NewSource(historySeed(platformID)))

	dates := make([]time.Time, 0, days+1)
	open := make([]float64, 0, days+1)
	overdue := make([]float64, 0, days+1)

	for i := days; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		dates = append(dates, date)

		progress := float64(days-i) / float64(days)
		count := int(float64(current)*0.7 + float64(current)*0.6*progress)
		count += rng.Intn(8) - 3
		if count < 0 {
			count = 0
		}
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			count = int(float64(count) * 0.85)
		}
		open = append(open, float64(count))

		// Overdue runs 15-35% of open.
		over := int(float64(count) * (0.15 + 0.2*rng.Float64()))
		over += rng.Intn(3) - 1
		if over < 0 {
			over = 0
		}
		if over > count {
			over = count
		}
		if i == 0 {
			over = breached
		}
		overdue = append(overdue, float64(over))
	}

	open[len(open)-1] = float64(current)

	return TicketHistory{
		Dates:          dates,
		OpenTickets:    series.MetricWindow{Values: open},
		OverdueTickets: series.MetricWindow{Values: overdue},
		CurrentCount:   current,
		BreachedCount:  breached,
	}
}

func historySeed(platformID string) int64 {
	if platformID == "" {
		platformID = "all"
	}
	h := fnv.New32a()
	h.Write([]byte(platformID))
	return int64(h.Sum32())
}
