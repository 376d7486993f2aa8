package sales

import (
	"time"

	"github.com/google/uuid"
)

// RouteSchedule plans a recurring visit to a customer on a weekday
type RouteSchedule struct {
	ID         uuid.UUID
	AgentID    uuid.UUID
	CustomerID uuid.UUID
	DayOfWeek  time.Weekday
	Active     bool
}

// PlannedVisits counts the scheduled calls in [from, to]: every full week
// contributes each active schedule once, and the leftover days are matched
// by weekday.
func PlannedVisits(schedules []RouteSchedule, from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	var perWeekday [7]int
	weekly := 0
	for _, s := range schedules {
		if s.Active {
			perWeekday[s.DayOfWeek]++
			weekly++
		}
	}
	if weekly == 0 {
		return 0
	}

	// calendar days, independent of zone offsets and DST
	first := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	days := int((last.Unix()-first.Unix())/86400) + 1

	total := (days / 7) * weekly
	start := int(first.Weekday())
	for i := 0; i < days%7; i++ {
		total += perWeekday[(start+i)%7]
	}
	return total
}
