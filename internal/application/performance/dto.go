package performance

import (
	"github.com/fieldsales/erp/internal/domain/performance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// KPIQuery selects the agent's date range, both ends inclusive (YYYY-MM-DD)
type KPIQuery struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

// KPIResponse represents an agent's performance figures in API responses
type KPIResponse struct {
	AgentID          uuid.UUID       `json:"agent_id"`
	From             string          `json:"from"`
	To               string          `json:"to"`
	TotalVisits      int64           `json:"total_visits"`
	SuccessfulVisits int64           `json:"successful_visits"`
	PlannedVisits    int64           `json:"planned_visits"`
	TotalInvoices    int64           `json:"total_invoices"`
	TotalSalesValue  decimal.Decimal `json:"total_sales_value"`
	TargetValue      decimal.Decimal `json:"target_value"`
	Productivity     float64         `json:"productivity"`
	StrikeRate       float64         `json:"strike_rate"`
	DropSize         decimal.Decimal `json:"drop_size"`
	TargetProgress   float64         `json:"target_progress"`
	Coverage         float64         `json:"coverage"`
	TargetCartons    decimal.Decimal `json:"target_cartons"`
	ActualCartons    decimal.Decimal `json:"actual_cartons"`
	CartonProgress   float64         `json:"carton_progress"`
	TargetTons       decimal.Decimal `json:"target_tons"`
	ActualTons       decimal.Decimal `json:"actual_tons"`
	TonProgress      float64         `json:"ton_progress"`
	Cached           bool            `json:"cached"`
}

const dateLayout = "2006-01-02"

// ToKPIResponse converts domain KPIs to the response DTO
func ToKPIResponse(k *performance.AgentKPIs, cached bool) KPIResponse {
	return KPIResponse{
		AgentID:          k.AgentID,
		From:             k.From.Format(dateLayout),
		To:               k.To.Format(dateLayout),
		TotalVisits:      k.TotalVisits,
		SuccessfulVisits: k.SuccessfulVisits,
		PlannedVisits:    k.PlannedVisits,
		TotalInvoices:    k.TotalInvoices,
		TotalSalesValue:  k.TotalSalesValue,
		TargetValue:      k.TargetValue,
		Productivity:     k.Productivity,
		StrikeRate:       k.StrikeRate,
		DropSize:         k.DropSize,
		TargetProgress:   k.TargetProgress,
		Coverage:         k.Coverage,
		TargetCartons:    k.TargetCartons,
		ActualCartons:    k.ActualCartons,
		CartonProgress:   k.CartonProgress,
		TargetTons:       k.TargetTons,
		ActualTons:       k.ActualTons,
		TonProgress:      k.TonProgress,
		Cached:           cached,
	}
}
