package handler

import (
	"context"

	settlementapp "github.com/fieldsales/erp/internal/application/settlement"
	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SettlementUseCase is the end-of-day reconciliation workflow
type SettlementUseCase interface {
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*settlementapp.ReconciliationResponse, error)
	List(ctx context.Context, actor identity.Actor, filter settlementapp.ReconciliationListFilter) ([]settlementapp.ReconciliationListResponse, int64, error)
	Submit(ctx context.Context, actor identity.Actor, req settlementapp.SubmitReconciliationRequest) (*settlementapp.ReconciliationResponse, error)
	Approve(ctx context.Context, actor identity.Actor, id uuid.UUID) (*settlementapp.ReconciliationResponse, error)
	Dispute(ctx context.Context, actor identity.Actor, id uuid.UUID, req settlementapp.DisputeReconciliationRequest) (*settlementapp.ReconciliationResponse, error)
}

// SettlementHandler handles reconciliation endpoints
type SettlementHandler struct {
	BaseHandler
	settlements SettlementUseCase
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlements SettlementUseCase) *SettlementHandler {
	return &SettlementHandler{settlements: settlements}
}

// Submit godoc
// @Summary      Submit a reconciliation
// @Description  Close an agent business day against the cash collected
// @Tags         reconciliations
// @Accept       json
// @Produce      json
// @Param        request body settlementapp.SubmitReconciliationRequest true "Day close"
// @Success      201 {object} dto.Response{data=settlementapp.ReconciliationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/reconciliations [post]
func (h *SettlementHandler) Submit(c *gin.Context) {
	var req settlementapp.SubmitReconciliationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rec, err := h.settlements.Submit(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rec)
}

// GetByID godoc
// @Summary      Get reconciliation by ID
// @Description  Retrieve a reconciliation with its per-product items
// @Tags         reconciliations
// @Accept       json
// @Produce      json
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Success      200 {object} dto.Response{data=settlementapp.ReconciliationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/reconciliations/{id} [get]
func (h *SettlementHandler) GetByID(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	rec, err := h.settlements.GetByID(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// List godoc
// @Summary      List reconciliations
// @Description  Retrieve a paginated list of reconciliations. Agents only see their own.
// @Tags         reconciliations
// @Accept       json
// @Produce      json
// @Param        status query string false "Filter by status" Enums(pending, submitted, approved, disputed)
// @Param        from query string false "Business day from" format(date)
// @Param        to query string false "Business day to" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]settlementapp.ReconciliationListResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/reconciliations [get]
func (h *SettlementHandler) List(c *gin.Context) {
	var filter settlementapp.ReconciliationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	agentID, ok := h.bindAgentFilter(c)
	if !ok {
		return
	}
	filter.AgentID = agentID

	recs, total, err := h.settlements.List(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, recs, total, pageOf(filter.Page), filter.PageSize)
}

// Approve godoc
// @Summary      Approve a reconciliation
// @Description  Approve a submitted reconciliation
// @Tags         reconciliations
// @Accept       json
// @Produce      json
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Success      200 {object} dto.Response{data=settlementapp.ReconciliationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/reconciliations/{id}/approve [post]
func (h *SettlementHandler) Approve(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	rec, err := h.settlements.Approve(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// Dispute godoc
// @Summary      Dispute a reconciliation
// @Description  Dispute a submitted reconciliation so the day can be submitted again
// @Tags         reconciliations
// @Accept       json
// @Produce      json
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Param        request body settlementapp.DisputeReconciliationRequest true "Dispute notes"
// @Success      200 {object} dto.Response{data=settlementapp.ReconciliationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/reconciliations/{id}/dispute [post]
func (h *SettlementHandler) Dispute(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req settlementapp.DisputeReconciliationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rec, err := h.settlements.Dispute(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}
