package performance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AgentTarget is a sales value target over an inclusive date period
type AgentTarget struct {
	ID          uuid.UUID
	AgentID     uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	TargetValue decimal.Decimal
}

// days returns the number of calendar days the target spans
func (t AgentTarget) days() int64 {
	return daysBetween(t.PeriodStart, t.PeriodEnd) + 1
}

// TargetForRange prorates targets by the number of days they overlap [from, to]
func TargetForRange(targets []AgentTarget, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, t := range targets {
		start := latest(t.PeriodStart, from)
		end := earliest(t.PeriodEnd, to)
		if end.Before(start) {
			continue
		}
		span := t.days()
		if span <= 0 {
			continue
		}
		overlap := daysBetween(start, end) + 1
		if overlap >= span {
			total = total.Add(t.TargetValue)
			continue
		}
		share := t.TargetValue.Mul(decimal.NewFromInt(overlap)).Div(decimal.NewFromInt(span))
		total = total.Add(share)
	}
	return total.Round(2)
}

func daysBetween(a, b time.Time) int64 {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int64(bd.Sub(ad).Hours() / 24)
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
