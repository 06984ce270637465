package quote

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/subinlebow/quotegen-backend/pkg/enums"
	"github.com/subinlebow/quotegen-backend/pkg/types"
)

// LineItem is one priced row on a quote: a base furniture piece or a fabric
// cover. Total is the stored amount for the row; the unit price is recovered
// as Total/Quantity when quantities change.
type LineItem struct {
	Name     string
	Quantity int
	Total    decimal.Decimal
}

// Quote is the aggregate root. All derived currency fields are recomputed as
// one unit on every mutation; Subtotal always equals the sum of line totals.
type Quote struct {
	ID              string
	Items           []LineItem
	PriceOption     enums.PriceOption
	FabricOption    enums.FabricOption
	DiscountPercent decimal.Decimal
	Subtotal        decimal.Decimal
	DiscountValue   decimal.Decimal
	TaxAmount       decimal.Decimal
	Total           decimal.Decimal
	Client          types.Client
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Clone returns a deep copy so readers never observe a quote mid-edit.
func (q *Quote) Clone() *Quote {
	if q == nil {
		return nil
	}
	copied := *q
	copied.Items = make([]LineItem, len(q.Items))
	copy(copied.Items, q.Items)
	return &copied
}
