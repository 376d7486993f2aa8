package settlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockPosition is an agent's ledger position in one product for the day
type StockPosition struct {
	ProductID uuid.UUID
	Loaded    decimal.Decimal
	Sold      decimal.Decimal
	Remaining decimal.Decimal
}

// UnloadLine is the quantity an agent hands back to the warehouse
type UnloadLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// Submission carries everything needed to close an agent's day
type Submission struct {
	AgentID       uuid.UUID
	BusinessDate  time.Time
	Positions     []StockPosition
	Unloads       []UnloadLine
	UnitPrices    map[uuid.UUID]decimal.Decimal
	CashCollected decimal.Decimal
	Notes         string
	SupersedesID  *uuid.UUID
}

// Calculator turns a submission into a pending reconciliation.
// In strict mode out-of-range unloads are rejected instead of clamped.
type Calculator struct {
	strict bool
}

// NewCalculator creates a settlement calculator
func NewCalculator(strict bool) Calculator {
	return Calculator{strict: strict}
}

// Strict reports whether unloads are validated instead of clamped
func (c Calculator) Strict() bool {
	return c.strict
}

// Calculate builds a pending reconciliation:
//
//	unload  = clamp(requested, 0, max(remaining, 0))
//	keep    = remaining - unload
//	expected_cash = Σ sold × unit_price
//	variance      = cash_collected - expected_cash
func (c Calculator) Calculate(sub Submission) (*Reconciliation, error) {
	if sub.AgentID == uuid.Nil {
		return nil, shared.NewValidationError("Agent ID cannot be empty")
	}
	if sub.BusinessDate.IsZero() {
		return nil, shared.NewValidationError("Business date is required")
	}
	if sub.CashCollected.IsNegative() {
		return nil, shared.NewValidationError("Cash collected cannot be negative")
	}

	unloads, err := c.indexUnloads(sub)
	if err != nil {
		return nil, err
	}

	rec := &Reconciliation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AgentID:           sub.AgentID,
		BusinessDate:      sub.BusinessDate,
		Status:            ReconciliationStatusPending,
		TotalLoaded:       decimal.Zero,
		TotalSold:         decimal.Zero,
		TotalReturned:     decimal.Zero,
		TotalRemaining:    decimal.Zero,
		CashCollected:     sub.CashCollected,
		ExpectedCash:      decimal.Zero,
		Notes:             strings.TrimSpace(sub.Notes),
		SupersedesID:      sub.SupersedesID,
		Items:             make([]ReconciliationItem, 0, len(sub.Positions)),
	}

	for _, pos := range sub.Positions {
		requested := unloads[pos.ProductID]
		unload, clamped, err := c.resolveUnload(pos, requested)
		if err != nil {
			return nil, err
		}

		price, ok := sub.UnitPrices[pos.ProductID]
		if !ok {
			if !pos.Sold.IsZero() {
				return nil, shared.NewValidationError(fmt.Sprintf("No unit price for product %s", pos.ProductID))
			}
			price = decimal.Zero
		}

		item := ReconciliationItem{
			ID:                uuid.New(),
			ReconciliationID:  rec.ID,
			ProductID:         pos.ProductID,
			LoadedQuantity:    pos.Loaded,
			SoldQuantity:      pos.Sold,
			ReturnedQuantity:  unload,
			RemainingQuantity: pos.Remaining.Sub(unload),
			UnitPrice:         price,
			TotalValue:        pos.Sold.Mul(price),
			RequestedUnload:   requested,
			UnloadClamped:     clamped,
		}
		rec.Items = append(rec.Items, item)

		rec.TotalLoaded = rec.TotalLoaded.Add(item.LoadedQuantity)
		rec.TotalSold = rec.TotalSold.Add(item.SoldQuantity)
		rec.TotalReturned = rec.TotalReturned.Add(item.ReturnedQuantity)
		rec.TotalRemaining = rec.TotalRemaining.Add(item.RemainingQuantity)
		rec.ExpectedCash = rec.ExpectedCash.Add(item.TotalValue)
	}
	rec.Variance = rec.CashCollected.Sub(rec.ExpectedCash)

	return rec, nil
}

func (c Calculator) indexUnloads(sub Submission) (map[uuid.UUID]decimal.Decimal, error) {
	known := make(map[uuid.UUID]bool, len(sub.Positions))
	for _, pos := range sub.Positions {
		known[pos.ProductID] = true
	}

	out := make(map[uuid.UUID]decimal.Decimal, len(sub.Unloads))
	for _, line := range sub.Unloads {
		if !known[line.ProductID] {
			return nil, shared.NewValidationError(fmt.Sprintf("Product %s has no stock position for this day", line.ProductID))
		}
		if _, dup := out[line.ProductID]; dup {
			return nil, shared.NewValidationError(fmt.Sprintf("Product %s appears more than once", line.ProductID))
		}
		out[line.ProductID] = line.Quantity
	}
	return out, nil
}

func (c Calculator) resolveUnload(pos StockPosition, requested decimal.Decimal) (decimal.Decimal, bool, error) {
	upper := decimal.Max(pos.Remaining, decimal.Zero)

	if requested.IsNegative() {
		if c.strict {
			return decimal.Zero, false, shared.NewValidationError("Unload quantity cannot be negative")
		}
		return decimal.Zero, true, nil
	}
	if requested.GreaterThan(upper) {
		if c.strict {
			return decimal.Zero, false, shared.NewQuantityExceededError(fmt.Sprintf(
				"Unload quantity %s exceeds remaining %s for product %s", requested, upper, pos.ProductID))
		}
		return upper, true, nil
	}
	return requested, false, nil
}
