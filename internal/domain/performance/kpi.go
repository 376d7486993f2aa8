package performance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxProgressPercent caps every progress figure
	MaxProgressPercent = 150
	// ValuePerCarton estimates carton volume from sales value
	ValuePerCarton = 100
	// CartonsPerTon estimates tonnage from carton volume
	CartonsPerTon = 40
)

// Activity is the raw material KPIs are derived from
type Activity struct {
	TotalVisits      int64
	SuccessfulVisits int64
	PlannedVisits    int64
	TotalInvoices    int64
	TotalSalesValue  decimal.Decimal
	TargetValue      decimal.Decimal
}

// AgentKPIs are an agent's performance figures for a date range.
// Every ratio with a zero denominator is 0.
type AgentKPIs struct {
	AgentID          uuid.UUID
	From             time.Time
	To               time.Time
	TotalVisits      int64
	SuccessfulVisits int64
	PlannedVisits    int64
	TotalInvoices    int64
	TotalSalesValue  decimal.Decimal
	TargetValue      decimal.Decimal

	Productivity   float64         // invoices per visit
	StrikeRate     float64         // % of visits that converted
	DropSize       decimal.Decimal // sales value per invoice
	TargetProgress float64         // % of target, saturating at 150
	Coverage       float64         // % of planned visits made

	TargetCartons  decimal.Decimal
	ActualCartons  decimal.Decimal
	CartonProgress float64
	TargetTons     decimal.Decimal
	ActualTons     decimal.Decimal
	TonProgress    float64
}

// Compute derives the KPIs of an agent from its activity
func Compute(agentID uuid.UUID, from, to time.Time, a Activity) AgentKPIs {
	k := AgentKPIs{
		AgentID:          agentID,
		From:             from,
		To:               to,
		TotalVisits:      a.TotalVisits,
		SuccessfulVisits: a.SuccessfulVisits,
		PlannedVisits:    a.PlannedVisits,
		TotalInvoices:    a.TotalInvoices,
		TotalSalesValue:  a.TotalSalesValue,
		TargetValue:      a.TargetValue,
	}

	invoices := decimal.NewFromInt(a.TotalInvoices)
	visits := decimal.NewFromInt(a.TotalVisits)

	k.Productivity = ratio(invoices, visits, 1)
	k.StrikeRate = ratio(decimal.NewFromInt(a.SuccessfulVisits), visits, 100)
	k.Coverage = ratio(visits, decimal.NewFromInt(a.PlannedVisits), 100)
	k.DropSize = safeDiv(a.TotalSalesValue, invoices).Round(2)
	k.TargetProgress = progress(a.TotalSalesValue, a.TargetValue)

	carton := decimal.NewFromInt(ValuePerCarton)
	perTon := decimal.NewFromInt(CartonsPerTon)
	k.TargetCartons = safeDiv(a.TargetValue, carton).Round(2)
	k.ActualCartons = safeDiv(a.TotalSalesValue, carton).Round(2)
	k.CartonProgress = progress(k.ActualCartons, k.TargetCartons)
	k.TargetTons = safeDiv(k.TargetCartons, perTon).Round(3)
	k.ActualTons = safeDiv(k.ActualCartons, perTon).Round(3)
	k.TonProgress = progress(k.ActualTons, k.TargetTons)

	return k
}

func safeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

func ratio(num, den decimal.Decimal, scale int64) float64 {
	return safeDiv(num, den).Mul(decimal.NewFromInt(scale)).Round(2).InexactFloat64()
}

func progress(actual, target decimal.Decimal) float64 {
	pct := safeDiv(actual, target).Mul(decimal.NewFromInt(100))
	return decimal.Min(pct, decimal.NewFromInt(MaxProgressPercent)).Round(2).InexactFloat64()
}
