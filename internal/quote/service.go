package quote

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/subinlebow/quotegen-backend/internal/catalog"
	"github.com/subinlebow/quotegen-backend/internal/detect"
	"github.com/subinlebow/quotegen-backend/pkg/enums"
	pkgerrors "github.com/subinlebow/quotegen-backend/pkg/errors"
	"github.com/subinlebow/quotegen-backend/pkg/money"
	"github.com/subinlebow/quotegen-backend/pkg/types"
)

// taxRate is the fixed sales tax applied to the post-discount subtotal.
// Discount is applied before tax throughout.
var taxRate = decimal.RequireFromString("0.07")

// Service exposes the quote lifecycle: build from detections, read, edit.
type Service interface {
	Build(ctx context.Context, params BuildParams) (*Quote, error)
	Get(ctx context.Context, id string) (*Quote, error)
	ApplyQuantityUpdates(ctx context.Context, id string, updates map[string]int) (*Quote, error)
	AddItem(ctx context.Context, id string, kind enums.ItemKind, label string, quantity int) (*Quote, error)
	DeleteItem(ctx context.Context, id string, itemName string) (*Quote, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// ServiceParams carries the collaborators for NewService.
type ServiceParams struct {
	Store Store
	Now   func() time.Time
}

// NewService builds the quote service backed by the provided store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("quote store required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store: params.Store,
		now:   now,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// BuildParams captures one detection run plus the options in effect.
type BuildParams struct {
	Detections   []detect.Detection
	PriceOption  enums.PriceOption
	FabricOption enums.FabricOption
	DiscountRaw  string
	Client       types.Client
}

// Build tallies detections into priced line items and stores a new quote.
// Labels the active price table does not sell are excluded, not rejected;
// an empty detection list yields a valid zero-valued quote.
func (s *service) Build(ctx context.Context, params BuildParams) (*Quote, error) {
	if !params.PriceOption.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid price option")
	}
	if !params.FabricOption.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid fabric option")
	}

	counts := make(map[string]int)
	var order []string
	for _, detection := range params.Detections {
		if _, ok := catalog.PriceFor(detection.Label, params.PriceOption); !ok {
			continue
		}
		if _, seen := counts[detection.Label]; !seen {
			order = append(order, detection.Label)
		}
		counts[detection.Label]++
	}

	items := make([]LineItem, 0, 2*len(order))
	coverCounts := make(map[string]int)
	var coverOrder []string
	for _, label := range order {
		count := counts[label]
		price, _ := catalog.PriceFor(label, params.PriceOption)
		items = append(items, LineItem{
			Name:     catalog.DisplayName(label),
			Quantity: count,
			Total:    money.Round2(price.Mul(decimal.NewFromInt(int64(count)))),
		})

		coverLabel, ok := catalog.CoverLabelFor(label)
		if !ok {
			continue
		}
		if _, seen := coverCounts[coverLabel]; !seen {
			coverOrder = append(coverOrder, coverLabel)
		}
		coverCounts[coverLabel] += count
	}

	// Cover rows follow all base rows, in first-seen order of cover labels.
	for _, coverLabel := range coverOrder {
		price, ok := catalog.CoverPriceFor(coverLabel, params.FabricOption)
		if !ok {
			continue
		}
		count := coverCounts[coverLabel]
		items = append(items, LineItem{
			Name:     catalog.DisplayName(coverLabel),
			Quantity: count,
			Total:    money.Round2(price.Mul(decimal.NewFromInt(int64(count)))),
		})
	}

	now := s.now()
	built := &Quote{
		ID:              uuid.NewString(),
		Items:           items,
		PriceOption:     params.PriceOption,
		FabricOption:    params.FabricOption,
		DiscountPercent: money.ParsePercent(params.DiscountRaw),
		Client:          params.Client,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	recompute(built)

	if err := s.store.Put(ctx, built); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store quote")
	}
	return built, nil
}

// Get returns the stored quote for the id.
func (s *service) Get(ctx context.Context, id string) (*Quote, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id is required")
	}
	stored, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load quote")
	}
	if stored == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}
	return stored, nil
}

// ApplyQuantityUpdates sets new quantities for the named line items and
// recomputes every aggregate. A zero-quantity line's unit price cannot be
// recovered, so that item's update is skipped rather than failing the batch.
func (s *service) ApplyQuantityUpdates(ctx context.Context, id string, updates map[string]int) (*Quote, error) {
	return s.withQuote(ctx, id, func(q *Quote) error {
		for i := range q.Items {
			newQty, ok := updates[q.Items[i].Name]
			if !ok || newQty == q.Items[i].Quantity || newQty < 0 {
				continue
			}
			if q.Items[i].Quantity == 0 {
				continue
			}
			unitPrice := q.Items[i].Total.Div(decimal.NewFromInt(int64(q.Items[i].Quantity)))
			q.Items[i].Quantity = newQty
			q.Items[i].Total = money.Round2(unitPrice.Mul(decimal.NewFromInt(int64(newQty))))
		}
		return nil
	})
}

// AddItem appends a priced line item, or merges quantity and total into an
// existing row with the same display name. Merging adds the new amount to
// the stored total so prior quantity-update pricing survives.
func (s *service) AddItem(ctx context.Context, id string, kind enums.ItemKind, label string, quantity int) (*Quote, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item kind")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	return s.withQuote(ctx, id, func(q *Quote) error {
		var (
			unitPrice decimal.Decimal
			ok        bool
		)
		switch kind {
		case enums.ItemKindCover:
			unitPrice, ok = catalog.CoverPriceFor(label, q.FabricOption)
		default:
			unitPrice, ok = catalog.PriceFor(label, q.PriceOption)
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "unknown item label").WithDetails(map[string]any{"label": label})
		}

		name := catalog.DisplayName(label)
		addition := money.Round2(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
		for i := range q.Items {
			if q.Items[i].Name == name {
				q.Items[i].Quantity += quantity
				q.Items[i].Total = money.Round2(q.Items[i].Total.Add(addition))
				return nil
			}
		}
		q.Items = append(q.Items, LineItem{Name: name, Quantity: quantity, Total: addition})
		return nil
	})
}

// DeleteItem removes every line item matching the normalized name and
// recomputes. Deleting a name that is not on the quote is a no-op.
func (s *service) DeleteItem(ctx context.Context, id string, itemName string) (*Quote, error) {
	name := catalog.NormalizeItemName(itemName)
	return s.withQuote(ctx, id, func(q *Quote) error {
		kept := q.Items[:0]
		for _, item := range q.Items {
			if item.Name != name {
				kept = append(kept, item)
			}
		}
		q.Items = kept
		return nil
	})
}

// Delete removes the quote entirely.
func (s *service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "quote id is required")
	}
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	stored, err := s.store.Get(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load quote")
	}
	if stored == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete quote")
	}

	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
	return nil
}

// withQuote runs one edit as an atomic unit: load, mutate, recompute, store,
// all under the per-quote lock. Edits to distinct ids proceed in parallel.
func (s *service) withQuote(ctx context.Context, id string, fn func(q *Quote) error) (*Quote, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id is required")
	}
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	stored, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load quote")
	}
	if stored == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}

	if err := fn(stored); err != nil {
		return nil, err
	}

	recompute(stored)
	stored.UpdatedAt = s.now()
	if err := s.store.Put(ctx, stored); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store quote")
	}
	return stored, nil
}

func (s *service) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// recompute derives subtotal, discount, tax, and total from the current
// items. Each stored field is rounded exactly once, at assignment; the tax
// base is the post-discount subtotal. An empty item list resets every
// aggregate to zero.
func recompute(q *Quote) {
	subtotal := decimal.Zero
	for _, item := range q.Items {
		subtotal = subtotal.Add(item.Total)
	}
	q.Subtotal = money.Round2(subtotal)

	if q.DiscountPercent.IsPositive() {
		q.DiscountValue = money.Round2(subtotal.Mul(q.DiscountPercent).Div(money.Hundred))
	} else {
		q.DiscountValue = decimal.Zero
	}

	taxable := q.Subtotal.Sub(q.DiscountValue)
	q.TaxAmount = money.Round2(taxable.Mul(taxRate))
	q.Total = money.Round2(taxable.Add(q.TaxAmount))
}
