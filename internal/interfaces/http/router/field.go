package router

import (
	"github.com/fieldsales/erp/internal/interfaces/http/handler"
)

// FieldHandlers are the handlers mounted under /api/v1/field
type FieldHandlers struct {
	Loads       *handler.LoadHandler
	Ledger      *handler.LedgerHandler
	Settlements *handler.SettlementHandler
	KPIs        *handler.KPIHandler
	Sales       *handler.SalesHandler
	Presence    *handler.PresenceHandler
}

// NewFieldGroup builds the field sales route table
func NewFieldGroup(h FieldHandlers) *DomainGroup {
	field := NewDomainGroup("field", "/field")

	field.Group("loads", "/loads").
		POST("", h.Loads.Request).
		GET("", h.Loads.List).
		GET("/:id", h.Loads.GetByID).
		POST("/:id/approve", h.Loads.Approve).
		POST("/:id/release", h.Loads.Release).
		POST("/:id/reject", h.Loads.Reject)

	field.Group("reconciliations", "/reconciliations").
		POST("", h.Settlements.Submit).
		GET("", h.Settlements.List).
		GET("/:id", h.Settlements.GetByID).
		POST("/:id/approve", h.Settlements.Approve).
		POST("/:id/dispute", h.Settlements.Dispute)

	field.Group("agents", "/agents/:agent_id").
		GET("/ledger", h.Ledger.GetLedger).
		GET("/carry-over", h.Ledger.GetCarryOver).
		GET("/kpis", h.KPIs.GetAgentKPIs).
		GET("/presence", h.Presence.Get)

	field.POST("/invoices", h.Sales.RecordInvoice)
	field.POST("/visits", h.Sales.RecordVisit)
	field.POST("/presence/heartbeat", h.Presence.Heartbeat)

	return field
}
