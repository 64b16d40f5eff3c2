package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bluebook-erp/bluebook/internal/shared"
)

// SupplierPort is the referential check against contacts.
type SupplierPort interface {
	Exists(ctx context.Context, id uuid.UUID) error
}

// CustomerPort is the referential check against business profiles.
type CustomerPort interface {
	Exists(ctx context.Context, id uuid.UUID) error
}

// CatalogPort resolves an order line against the catalog, returning the name
// snapshot to denormalize onto the line.
type CatalogPort interface {
	Lookup(ctx context.Context, kind ItemKind, id uuid.UUID) (name string, err error)
}

// Service applies purchase-order business rules.
type Service struct {
	repo      Repository
	suppliers SupplierPort
	customers CustomerPort
	catalog   CatalogPort
}

// NewService constructs the purchase-order service.
func NewService(repo Repository, suppliers SupplierPort, customers CustomerPort, catalog CatalogPort) *Service {
	return &Service{repo: repo, suppliers: suppliers, customers: customers, catalog: catalog}
}

// FetchAll returns a page of orders, optionally narrowed by status and order
// date range.
func (s *Service) FetchAll(ctx context.Context, f ListFilter, q shared.ListQuery) ([]PurchaseOrder, int, error) {
	return s.repo.FetchAll(ctx, f, q.Normalize("created_at"))
}

// Search returns a page of orders matching the free-text query.
func (s *Service) Search(ctx context.Context, text string, q shared.ListQuery) ([]PurchaseOrder, int, error) {
	return s.repo.Search(ctx, text, q.Normalize("created_at"))
}

// FetchOne returns a single order.
func (s *Service) FetchOne(ctx context.Context, id uuid.UUID) (PurchaseOrder, error) {
	return s.repo.FetchOne(ctx, id)
}

// Create checks the supplier, customer and every line's catalog reference,
// assigns the next number within the (year, month) bucket of the order date
// and persists. The creator comes from the request context.
//
// The check-then-write sequence is not transactional, so concurrent creates
// can race into a duplicate bucket number. The numbering integrity job
// reports such collisions.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (PurchaseOrder, error) {
	if len(req.Items) == 0 {
		return PurchaseOrder{}, ErrEmptyItems
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return PurchaseOrder{}, ErrSupplierNotFound
	}
	if err := s.suppliers.Exists(ctx, supplierID); err != nil {
		return PurchaseOrder{}, ErrSupplierNotFound
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return PurchaseOrder{}, ErrCustomerNotFound
	}
	if err := s.customers.Exists(ctx, customerID); err != nil {
		return PurchaseOrder{}, ErrCustomerNotFound
	}

	now := time.Now()
	items, err := s.buildItems(ctx, req.Items, now)
	if err != nil {
		return PurchaseOrder{}, err
	}

	year, month := req.OrderDate.Year(), int(req.OrderDate.Month())
	last, err := s.repo.LastNumber(ctx, year, month)
	if err != nil {
		return PurchaseOrder{}, err
	}

	userID := shared.UserIDFromContext(ctx)
	order := PurchaseOrder{
		ID:                       uuid.New(),
		Year:                     year,
		Month:                    month,
		Number:                   last + 1,
		Reference:                req.Reference,
		Note:                     req.Note,
		SupplierID:               supplierID,
		CustomerID:               customerID,
		OrderDate:                req.OrderDate,
		DeliveryDate:             req.DeliveryDate,
		PaymentTermsDays:         req.PaymentTermsDays,
		Items:                    items,
		AdditionalDiscountAmount: req.AdditionalDiscountAmount,
		VatOption:                defaultVatOption(req.VatOption),
		IncludedVat:              req.IncludedVat,
		Currency:                 defaultCurrency(req.Currency),
		Status:                   StatusPending,
		UserID:                   userID,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	return s.repo.Create(ctx, order)
}

// Update applies the non-nil fields of the request onto the stored order.
// Changed supplier or customer references are re-checked; unchanged ones
// are not.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (PurchaseOrder, error) {
	order, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if req.SupplierID != nil {
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return PurchaseOrder{}, ErrSupplierNotFound
		}
		if supplierID != order.SupplierID {
			if err := s.suppliers.Exists(ctx, supplierID); err != nil {
				return PurchaseOrder{}, ErrSupplierNotFound
			}
		}
		order.SupplierID = supplierID
	}
	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return PurchaseOrder{}, ErrCustomerNotFound
		}
		if customerID != order.CustomerID {
			if err := s.customers.Exists(ctx, customerID); err != nil {
				return PurchaseOrder{}, ErrCustomerNotFound
			}
		}
		order.CustomerID = customerID
	}
	if req.Reference != nil {
		order.Reference = *req.Reference
	}
	if req.Note != nil {
		order.Note = *req.Note
	}
	if req.OrderDate != nil {
		// The (year, month, number) reference is fixed at creation; moving
		// the order date does not renumber.
		order.OrderDate = *req.OrderDate
	}
	if req.DeliveryDate != nil {
		order.DeliveryDate = req.DeliveryDate
	}
	if req.PaymentTermsDays != nil {
		order.PaymentTermsDays = *req.PaymentTermsDays
	}
	if req.AdditionalDiscountAmount != nil {
		order.AdditionalDiscountAmount = *req.AdditionalDiscountAmount
	}
	if req.VatOption != nil {
		vat := VatOption(*req.VatOption)
		if !vat.Valid() {
			return PurchaseOrder{}, ErrInvalidEnum
		}
		order.VatOption = vat
	}
	if req.IncludedVat != nil {
		order.IncludedVat = *req.IncludedVat
	}
	if req.Currency != nil {
		currency := Currency(*req.Currency)
		if !currency.Valid() {
			return PurchaseOrder{}, ErrInvalidEnum
		}
		order.Currency = currency
	}
	if req.Status != nil {
		status := Status(*req.Status)
		if !status.Valid() {
			return PurchaseOrder{}, ErrInvalidEnum
		}
		order.Status = status
	}
	order.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, order); err != nil {
		return PurchaseOrder{}, err
	}
	return order, nil
}

// ReplaceItems swaps the whole item list along with the order-level VAT flags
// and discount. The caller redistributes any order-level discount into the
// per-item shares; no automatic split happens here.
func (s *Service) ReplaceItems(ctx context.Context, id uuid.UUID, req ReplaceItemsRequest) (PurchaseOrder, error) {
	if len(req.Items) == 0 {
		return PurchaseOrder{}, ErrEmptyItems
	}
	order, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	now := time.Now()
	items, err := s.buildItems(ctx, req.Items, now)
	if err != nil {
		return PurchaseOrder{}, err
	}
	vat := defaultVatOption(req.VatOption)
	if !vat.Valid() {
		return PurchaseOrder{}, ErrInvalidEnum
	}
	order.Items = items
	order.AdditionalDiscountAmount = req.AdditionalDiscountAmount
	order.VatOption = vat
	order.IncludedVat = req.IncludedVat
	order.UpdatedAt = now
	if err := s.repo.Update(ctx, order); err != nil {
		return PurchaseOrder{}, err
	}
	return order, nil
}

// ReorderItems re-sequences the stored item array to match the supplied id
// order. Items whose ids are omitted keep their original relative order and
// are appended after the listed ones; unknown ids are a not-found failure.
func (s *Service) ReorderItems(ctx context.Context, id uuid.UUID, req ReorderItemsRequest) (PurchaseOrder, error) {
	if len(req.ItemIDOrder) == 0 {
		return PurchaseOrder{}, ErrEmptyOrdering
	}
	order, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		return PurchaseOrder{}, err
	}

	byID := make(map[uuid.UUID]Item, len(order.Items))
	for _, it := range order.Items {
		byID[it.ID] = it
	}

	reordered := make([]Item, 0, len(order.Items))
	listed := make(map[uuid.UUID]bool, len(req.ItemIDOrder))
	for _, raw := range req.ItemIDOrder {
		itemID, err := uuid.Parse(raw)
		if err != nil {
			return PurchaseOrder{}, ErrItemNotFound
		}
		it, ok := byID[itemID]
		if !ok {
			return PurchaseOrder{}, ErrItemNotFound
		}
		reordered = append(reordered, it)
		listed[itemID] = true
	}
	for _, it := range order.Items {
		if !listed[it.ID] {
			reordered = append(reordered, it)
		}
	}

	order.Items = reordered
	order.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, order); err != nil {
		return PurchaseOrder{}, err
	}
	return order, nil
}

// RemoveItem soft-removes one line. The entry stays in the stored array for
// audit and drops out of active views.
func (s *Service) RemoveItem(ctx context.Context, id, itemID uuid.UUID) (PurchaseOrder, error) {
	order, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	idx := -1
	for i, it := range order.Items {
		if it.ID == itemID && it.DeletedAt == nil {
			idx = i
			break
		}
	}
	if idx < 0 {
		return PurchaseOrder{}, ErrItemNotFound
	}
	now := time.Now()
	order.Items[idx].DeletedAt = &now
	order.Items[idx].UpdatedAt = now
	order.UpdatedAt = now
	if err := s.repo.Update(ctx, order); err != nil {
		return PurchaseOrder{}, err
	}
	return order, nil
}

// Delete soft-deletes an order.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) buildItems(ctx context.Context, inputs []ItemInput, now time.Time) ([]Item, error) {
	items := make([]Item, 0, len(inputs))
	for _, in := range inputs {
		kind := ItemKind(in.Kind)
		if !kind.Valid() {
			return nil, ErrInvalidEnum
		}
		itemID, err := uuid.Parse(in.ItemID)
		if err != nil {
			return nil, ErrCatalogItemNotFound
		}
		name, err := s.catalog.Lookup(ctx, kind, itemID)
		if err != nil {
			return nil, ErrCatalogItemNotFound
		}
		var variantID *uuid.UUID
		if in.VariantID != nil && *in.VariantID != "" {
			v, err := uuid.Parse(*in.VariantID)
			if err != nil {
				return nil, ErrCatalogItemNotFound
			}
			variantID = &v
		}
		vatRate := VatRate(in.VatRateOption)
		if in.VatRateOption == "" {
			vatRate = VatRateNone
		}
		if !vatRate.Valid() {
			return nil, ErrInvalidEnum
		}
		whRate := WithholdingRate(in.TaxWithholdingRateOption)
		if in.TaxWithholdingRateOption == "" {
			whRate = "none"
		}
		if !whRate.Valid() {
			return nil, ErrInvalidEnum
		}
		items = append(items, Item{
			ID:                       uuid.New(),
			ItemID:                   itemID,
			Kind:                     kind,
			VariantID:                variantID,
			Name:                     name,
			Description:              in.Description,
			Qty:                      in.Qty,
			PricePerUnit:             in.PricePerUnit,
			DiscountPricePerUnit:     in.DiscountPricePerUnit,
			AdditionalDiscount:       in.AdditionalDiscount,
			VatRateOption:            vatRate,
			VatIncluded:              in.VatIncluded,
			TaxWithholdingRateOption: whRate,
			CreatedAt:                now,
			UpdatedAt:                now,
		})
	}
	return items, nil
}

func defaultVatOption(raw string) VatOption {
	if raw == "" {
		return VatNone
	}
	return VatOption(raw)
}

func defaultCurrency(raw string) Currency {
	if raw == "" {
		return CurrencyTHB
	}
	return Currency(raw)
}
