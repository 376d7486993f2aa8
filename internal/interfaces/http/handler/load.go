package handler

import (
	"context"

	vanstockapp "github.com/fieldsales/erp/internal/application/vanstock"
	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoadUseCase is the stock load workflow served over HTTP
type LoadUseCase interface {
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*vanstockapp.LoadResponse, error)
	List(ctx context.Context, actor identity.Actor, filter vanstockapp.LoadListFilter) ([]vanstockapp.LoadListResponse, int64, error)
	Request(ctx context.Context, actor identity.Actor, req vanstockapp.RequestLoadRequest) (*vanstockapp.LoadResponse, error)
	Approve(ctx context.Context, actor identity.Actor, id uuid.UUID, req vanstockapp.ApproveLoadRequest) (*vanstockapp.LoadResponse, error)
	Release(ctx context.Context, actor identity.Actor, id uuid.UUID, req vanstockapp.ReleaseLoadRequest) (*vanstockapp.LoadResponse, error)
	Reject(ctx context.Context, actor identity.Actor, id uuid.UUID, req vanstockapp.RejectLoadRequest) (*vanstockapp.LoadResponse, error)
}

// LoadHandler handles stock load endpoints
type LoadHandler struct {
	BaseHandler
	loads LoadUseCase
}

// NewLoadHandler creates a new LoadHandler
func NewLoadHandler(loads LoadUseCase) *LoadHandler {
	return &LoadHandler{loads: loads}
}

// Request godoc
// @Summary      Request a stock load
// @Description  An agent asks for stock to be put on the van
// @Tags         loads
// @Accept       json
// @Produce      json
// @Param        request body vanstockapp.RequestLoadRequest true "Requested lines"
// @Success      201 {object} dto.Response{data=vanstockapp.LoadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/loads [post]
func (h *LoadHandler) Request(c *gin.Context) {
	var req vanstockapp.RequestLoadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	load, err := h.loads.Request(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, load)
}

// GetByID godoc
// @Summary      Get stock load by ID
// @Description  Retrieve a stock load with its lines
// @Tags         loads
// @Accept       json
// @Produce      json
// @Param        id path string true "Load ID" format(uuid)
// @Success      200 {object} dto.Response{data=vanstockapp.LoadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/loads/{id} [get]
func (h *LoadHandler) GetByID(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	load, err := h.loads.GetByID(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, load)
}

// List godoc
// @Summary      List stock loads
// @Description  Retrieve a paginated list of stock loads. Agents only see their own.
// @Tags         loads
// @Accept       json
// @Produce      json
// @Param        status query string false "Filter by status" Enums(requested, approved, released, rejected)
// @Param        from query string false "Business day from" format(date)
// @Param        to query string false "Business day to" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]vanstockapp.LoadListResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/loads [get]
func (h *LoadHandler) List(c *gin.Context) {
	var filter vanstockapp.LoadListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	agentID, ok := h.bindAgentFilter(c)
	if !ok {
		return
	}
	filter.AgentID = agentID

	loads, total, err := h.loads.List(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, loads, total, pageOf(filter.Page), filter.PageSize)
}

// Approve godoc
// @Summary      Approve a stock load
// @Description  Approve a requested load. Lines omitted from the body keep the requested quantity.
// @Tags         loads
// @Accept       json
// @Produce      json
// @Param        id path string true "Load ID" format(uuid)
// @Param        request body vanstockapp.ApproveLoadRequest false "Approved quantities"
// @Success      200 {object} dto.Response{data=vanstockapp.LoadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/loads/{id}/approve [post]
func (h *LoadHandler) Approve(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req vanstockapp.ApproveLoadRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	load, err := h.loads.Approve(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, load)
}

// Release godoc
// @Summary      Release a stock load
// @Description  Hand an approved load over to the agent. Released quantities may not exceed the approved ones.
// @Tags         loads
// @Accept       json
// @Produce      json
// @Param        id path string true "Load ID" format(uuid)
// @Param        request body vanstockapp.ReleaseLoadRequest false "Released quantities"
// @Success      200 {object} dto.Response{data=vanstockapp.LoadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/loads/{id}/release [post]
func (h *LoadHandler) Release(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req vanstockapp.ReleaseLoadRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	load, err := h.loads.Release(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, load)
}

// Reject godoc
// @Summary      Reject a stock load
// @Description  Reject a requested or approved load with a reason
// @Tags         loads
// @Accept       json
// @Produce      json
// @Param        id path string true "Load ID" format(uuid)
// @Param        request body vanstockapp.RejectLoadRequest true "Rejection reason"
// @Success      200 {object} dto.Response{data=vanstockapp.LoadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/loads/{id}/reject [post]
func (h *LoadHandler) Reject(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req vanstockapp.RejectLoadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	load, err := h.loads.Reject(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, load)
}
