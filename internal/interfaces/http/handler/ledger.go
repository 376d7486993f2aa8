package handler

import (
	"context"
	"time"

	vanstockapp "github.com/fieldsales/erp/internal/application/vanstock"
	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerUseCase exposes the derived van stock ledger
type LedgerUseCase interface {
	Calendar() shared.BusinessCalendar
	GetLedger(ctx context.Context, actor identity.Actor, agentID, productID uuid.UUID, day time.Time) (*vanstockapp.LedgerEntryResponse, error)
	GetDayLedger(ctx context.Context, actor identity.Actor, agentID uuid.UUID, day time.Time) (*vanstockapp.DayLedgerResponse, error)
	GetCarryOver(ctx context.Context, actor identity.Actor, agentID, productID uuid.UUID) (*vanstockapp.CarryOverResponse, error)
}

// LedgerQuery selects a ledger view. Date defaults to today and an empty
// ProductID returns every product of the day.
type LedgerQuery struct {
	ProductID string `form:"product_id" binding:"omitempty,uuid"`
	Date      string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// CarryOverQuery selects the product whose carry-over is requested
type CarryOverQuery struct {
	ProductID string `form:"product_id" binding:"required,uuid"`
}

// LedgerHandler handles ledger and carry-over endpoints
type LedgerHandler struct {
	BaseHandler
	ledger LedgerUseCase
	now    func() time.Time
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledger LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, now: time.Now}
}

// GetLedger godoc
// @Summary      Get van stock ledger
// @Description  Derived ledger of one agent for a business day. Without product_id every product of the day is returned.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        agent_id path string true "Agent ID" format(uuid)
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        date query string false "Business day, defaults to today" format(date)
// @Success      200 {object} dto.Response{data=vanstockapp.DayLedgerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/agents/{agent_id}/ledger [get]
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	agentID, ok := h.bindAgentID(c)
	if !ok {
		return
	}
	var query LedgerQuery
	if !h.bindQuery(c, &query) {
		return
	}

	day := h.now()
	if query.Date != "" {
		parsed, err := h.ledger.Calendar().ParseDate(query.Date)
		if err != nil {
			h.BadRequest(c, "Invalid date")
			return
		}
		day = parsed
	}

	actor := middleware.GetActor(c)
	if query.ProductID == "" {
		ledger, err := h.ledger.GetDayLedger(c.Request.Context(), actor, agentID, day)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, ledger)
		return
	}

	entry, err := h.ledger.GetLedger(c.Request.Context(), actor, agentID, uuid.MustParse(query.ProductID), day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// GetCarryOver godoc
// @Summary      Get carry-over stock
// @Description  Stock the agent still holds for a product from the last approved reconciliation
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        agent_id path string true "Agent ID" format(uuid)
// @Param        product_id query string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=vanstockapp.CarryOverResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /field/agents/{agent_id}/carry-over [get]
func (h *LedgerHandler) GetCarryOver(c *gin.Context) {
	agentID, ok := h.bindAgentID(c)
	if !ok {
		return
	}
	var query CarryOverQuery
	if !h.bindQuery(c, &query) {
		return
	}

	carry, err := h.ledger.GetCarryOver(c.Request.Context(), middleware.GetActor(c), agentID, uuid.MustParse(query.ProductID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, carry)
}
