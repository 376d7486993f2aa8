package handler

import (
	"context"

	identityapp "github.com/fieldsales/erp/internal/application/identity"
	performanceapp "github.com/fieldsales/erp/internal/application/performance"
	salesapp "github.com/fieldsales/erp/internal/application/sales"
	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// KPIUseCase computes agent performance figures
type KPIUseCase interface {
	GetAgentKPIs(ctx context.Context, actor identity.Actor, agentID uuid.UUID, query performanceapp.KPIQuery) (*performanceapp.KPIResponse, error)
}

// SalesUseCase ingests invoices and visits from the field
type SalesUseCase interface {
	RecordInvoice(ctx context.Context, actor identity.Actor, req salesapp.RecordInvoiceRequest) (*salesapp.InvoiceResponse, error)
	RecordVisit(ctx context.Context, actor identity.Actor, req salesapp.RecordVisitRequest) (*salesapp.VisitResponse, error)
}

// PresenceUseCase tracks agent heartbeats
type PresenceUseCase interface {
	Heartbeat(ctx context.Context, actor identity.Actor) (*identityapp.PresenceResponse, error)
	Get(ctx context.Context, actor identity.Actor, agentID uuid.UUID) (*identityapp.PresenceResponse, error)
}

// KPIHandler handles agent performance endpoints
type KPIHandler struct {
	BaseHandler
	kpis KPIUseCase
}

// NewKPIHandler creates a new KPIHandler
func NewKPIHandler(kpis KPIUseCase) *KPIHandler {
	return &KPIHandler{kpis: kpis}
}

// GetAgentKPIs godoc
// @Summary      Get agent KPIs
// @Description  Visits, conversion, sales and target attainment of an agent over a date range of at most 366 days
// @Tags         performance
// @Accept       json
// @Produce      json
// @Param        agent_id path string true "Agent ID" format(uuid)
// @Param        from query string true "Range start" format(date)
// @Param        to query string true "Range end" format(date)
// @Success      200 {object} dto.Response{data=performanceapp.KPIResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/agents/{agent_id}/kpis [get]
func (h *KPIHandler) GetAgentKPIs(c *gin.Context) {
	agentID, ok := h.bindAgentID(c)
	if !ok {
		return
	}
	var query performanceapp.KPIQuery
	if !h.bindQuery(c, &query) {
		return
	}

	kpis, err := h.kpis.GetAgentKPIs(c.Request.Context(), middleware.GetActor(c), agentID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, kpis)
}

// SalesHandler handles invoice and visit ingestion
type SalesHandler struct {
	BaseHandler
	sales SalesUseCase
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(sales SalesUseCase) *SalesHandler {
	return &SalesHandler{sales: sales}
}

// RecordInvoice godoc
// @Summary      Record an invoice
// @Description  Record a sale. Lines without unit_price are priced from the catalog. A backdated invoice may not land in a submitted or approved day.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body salesapp.RecordInvoiceRequest true "Invoice"
// @Success      201 {object} dto.Response{data=salesapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/invoices [post]
func (h *SalesHandler) RecordInvoice(c *gin.Context) {
	var req salesapp.RecordInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.sales.RecordInvoice(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// RecordVisit godoc
// @Summary      Record a visit
// @Description  Record a customer call and its outcome
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body salesapp.RecordVisitRequest true "Visit"
// @Success      201 {object} dto.Response{data=salesapp.VisitResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/visits [post]
func (h *SalesHandler) RecordVisit(c *gin.Context) {
	var req salesapp.RecordVisitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	visit, err := h.sales.RecordVisit(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, visit)
}

// PresenceHandler handles heartbeat and online status endpoints
type PresenceHandler struct {
	BaseHandler
	presence PresenceUseCase
}

// NewPresenceHandler creates a new PresenceHandler
func NewPresenceHandler(presence PresenceUseCase) *PresenceHandler {
	return &PresenceHandler{presence: presence}
}

// Heartbeat godoc
// @Summary      Send a presence heartbeat
// @Description  Mark the calling agent online until the presence TTL lapses
// @Tags         presence
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.PresenceResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/presence/heartbeat [post]
func (h *PresenceHandler) Heartbeat(c *gin.Context) {
	status, err := h.presence.Heartbeat(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// Get godoc
// @Summary      Get agent presence
// @Description  Whether the agent is online and when it was last seen
// @Tags         presence
// @Accept       json
// @Produce      json
// @Param        agent_id path string true "Agent ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.PresenceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/agents/{agent_id}/presence [get]
func (h *PresenceHandler) Get(c *gin.Context) {
	agentID, ok := h.bindAgentID(c)
	if !ok {
		return
	}

	status, err := h.presence.Get(c.Request.Context(), middleware.GetActor(c), agentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}
