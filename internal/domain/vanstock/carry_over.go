package vanstock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarryOver is the advisory quantity an agent still holds from the most
// recent day with a released load. It is shown next to a new request and
// never deducted from it.
type CarryOver struct {
	AgentID    uuid.UUID
	ProductID  uuid.UUID
	SourceDate *time.Time
	Quantity   decimal.Decimal
}

// NewCarryOver builds a carry-over from a ledger entry
func NewCarryOver(entry LedgerEntry) CarryOver {
	day := entry.Date
	return CarryOver{
		AgentID:    entry.AgentID,
		ProductID:  entry.ProductID,
		SourceDate: &day,
		Quantity:   entry.Remaining,
	}
}

// NoCarryOver is returned when the agent has never had a load released
func NoCarryOver(agentID, productID uuid.UUID) CarryOver {
	return CarryOver{AgentID: agentID, ProductID: productID, Quantity: decimal.Zero}
}
