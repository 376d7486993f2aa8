package performance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	agentID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("ratios", func(t *testing.T) {
		k := Compute(agentID, from, to, Activity{
			TotalVisits:      40,
			SuccessfulVisits: 30,
			PlannedVisits:    50,
			TotalInvoices:    32,
			TotalSalesValue:  decimal.NewFromInt(48000),
			TargetValue:      decimal.NewFromInt(60000),
		})

		assert.Equal(t, 0.8, k.Productivity)
		assert.Equal(t, 75.0, k.StrikeRate)
		assert.Equal(t, 80.0, k.Coverage)
		assert.True(t, k.DropSize.Equal(decimal.NewFromInt(1500)))
		assert.Equal(t, 80.0, k.TargetProgress)
		assert.True(t, k.TargetCartons.Equal(decimal.NewFromInt(600)))
		assert.True(t, k.ActualCartons.Equal(decimal.NewFromInt(480)))
		assert.Equal(t, 80.0, k.CartonProgress)
		assert.True(t, k.TargetTons.Equal(decimal.NewFromInt(15)))
		assert.True(t, k.ActualTons.Equal(decimal.NewFromInt(12)))
		assert.Equal(t, 80.0, k.TonProgress)
	})

	t.Run("progress saturates at 150", func(t *testing.T) {
		k := Compute(agentID, from, to, Activity{
			TotalInvoices:   1,
			TotalSalesValue: decimal.NewFromInt(1000),
			TargetValue:     decimal.NewFromInt(100),
		})
		assert.Equal(t, 150.0, k.TargetProgress)
		assert.Equal(t, 150.0, k.CartonProgress)
	})

	t.Run("zero denominators yield zero", func(t *testing.T) {
		k := Compute(agentID, from, to, Activity{TotalSalesValue: decimal.NewFromInt(500)})
		assert.Zero(t, k.Productivity)
		assert.Zero(t, k.StrikeRate)
		assert.Zero(t, k.Coverage)
		assert.True(t, k.DropSize.IsZero())
		assert.Zero(t, k.TargetProgress)
		assert.Zero(t, k.TonProgress)
	})
}

func TestTargetForRange(t *testing.T) {
	agentID := uuid.New()
	march := AgentTarget{
		ID:          uuid.New(),
		AgentID:     agentID,
		PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		TargetValue: decimal.NewFromInt(31000),
	}

	t.Run("full period", func(t *testing.T) {
		got := TargetForRange([]AgentTarget{march}, march.PeriodStart, march.PeriodEnd)
		assert.True(t, got.Equal(decimal.NewFromInt(31000)))
	})

	t.Run("prorated by overlapping days", func(t *testing.T) {
		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		got := TargetForRange([]AgentTarget{march}, from, to)
		assert.True(t, got.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("no overlap", func(t *testing.T) {
		from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		got := TargetForRange([]AgentTarget{march}, from, from)
		assert.True(t, got.IsZero())
	})
}
