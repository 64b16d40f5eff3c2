package purchasing

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bluebook-erp/bluebook/internal/platform/db"
	"github.com/bluebook-erp/bluebook/internal/shared"
)

// ListFilter narrows fetchAll beyond the common paging options. Zero values
// mean no filtering on that axis.
type ListFilter struct {
	Status Status
	From   time.Time
	To     time.Time
}

// Repository persists purchase orders. Line items travel with the parent row
// as a JSONB array.
type Repository interface {
	FetchAll(ctx context.Context, f ListFilter, q shared.ListQuery) ([]PurchaseOrder, int, error)
	Search(ctx context.Context, text string, q shared.ListQuery) ([]PurchaseOrder, int, error)
	FetchOne(ctx context.Context, id uuid.UUID) (PurchaseOrder, error)
	LastNumber(ctx context.Context, year, month int) (int, error)
	Create(ctx context.Context, order PurchaseOrder) (PurchaseOrder, error)
	Update(ctx context.Context, order PurchaseOrder) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a pgx-backed order repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const orderColumns = `id, year, month, number, reference, note, supplier_id, customer_id,
	order_date, delivery_date, payment_terms_days, items, additional_discount_amount,
	vat_option, included_vat, currency, status, user_id, created_at, updated_at, deleted_at`

func scanOrder(row pgx.Row) (PurchaseOrder, error) {
	var o PurchaseOrder
	var items []byte
	err := row.Scan(&o.ID, &o.Year, &o.Month, &o.Number, &o.Reference, &o.Note,
		&o.SupplierID, &o.CustomerID, &o.OrderDate, &o.DeliveryDate, &o.PaymentTermsDays,
		&items, &o.AdditionalDiscountAmount, &o.VatOption, &o.IncludedVat, &o.Currency,
		&o.Status, &o.UserID, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return PurchaseOrder{}, err
		}
	}
	return o, nil
}

func (r *repository) FetchAll(ctx context.Context, f ListFilter, q shared.ListQuery) ([]PurchaseOrder, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	if !q.ShowDeleted {
		where += ` AND deleted_at IS NULL`
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		where += ` AND order_date >= $` + strconv.Itoa(len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		where += ` AND order_date <= $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitPos := len(args) + 1
	query := `SELECT ` + orderColumns + ` FROM purchase_orders` + where +
		` ORDER BY ` + sortOrder(q.SortBy, q.SortDir) +
		` LIMIT $` + strconv.Itoa(limitPos) + ` OFFSET $` + strconv.Itoa(limitPos+1)
	args = append(args, q.PerPage, q.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectOrders(rows, total)
}

func (r *repository) Search(ctx context.Context, text string, q shared.ListQuery) ([]PurchaseOrder, int, error) {
	where := ` WHERE (reference ILIKE $1 OR note ILIKE $1`
	args := []interface{}{"%" + text + "%"}
	if n, err := strconv.Atoi(text); err == nil {
		where += ` OR number = $2`
		args = append(args, n)
	}
	where += `)`
	if !q.ShowDeleted {
		where += ` AND deleted_at IS NULL`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitPos := len(args) + 1
	query := `SELECT ` + orderColumns + ` FROM purchase_orders` + where +
		` ORDER BY ` + sortOrder(q.SortBy, q.SortDir) +
		` LIMIT $` + strconv.Itoa(limitPos) + ` OFFSET $` + strconv.Itoa(limitPos+1)
	args = append(args, q.PerPage, q.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectOrders(rows, total)
}

func collectOrders(rows pgx.Rows, total int) ([]PurchaseOrder, int, error) {
	var orders []PurchaseOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

func (r *repository) FetchOne(ctx context.Context, id uuid.UUID) (PurchaseOrder, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseOrder{}, ErrNotFound
	}
	return o, err
}

// LastNumber includes soft-deleted rows so numbers never repeat within a
// (year, month) bucket.
func (r *repository) LastNumber(ctx context.Context, year, month int) (int, error) {
	var number int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM purchase_orders WHERE year = $1 AND month = $2`,
		year, month).Scan(&number)
	return number, err
}

func (r *repository) Create(ctx context.Context, order PurchaseOrder) (PurchaseOrder, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return PurchaseOrder{}, err
	}
	query := `INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err = r.db.Exec(ctx, query,
		order.ID, order.Year, order.Month, order.Number, order.Reference, order.Note,
		order.SupplierID, order.CustomerID, order.OrderDate, order.DeliveryDate,
		order.PaymentTermsDays, items, order.AdditionalDiscountAmount, order.VatOption,
		order.IncludedVat, order.Currency, order.Status, order.UserID,
		order.CreatedAt, order.UpdatedAt, order.DeletedAt)
	if err != nil {
		return PurchaseOrder{}, db.WriteError("purchasing: create", err)
	}
	return order, nil
}

func (r *repository) Update(ctx context.Context, order PurchaseOrder) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	query := `UPDATE purchase_orders SET reference = $2, note = $3, supplier_id = $4,
		customer_id = $5, order_date = $6, delivery_date = $7, payment_terms_days = $8,
		items = $9, additional_discount_amount = $10, vat_option = $11, included_vat = $12,
		currency = $13, status = $14, updated_at = $15 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, order.ID, order.Reference, order.Note,
		order.SupplierID, order.CustomerID, order.OrderDate, order.DeliveryDate,
		order.PaymentTermsDays, items, order.AdditionalDiscountAmount, order.VatOption,
		order.IncludedVat, order.Currency, order.Status, order.UpdatedAt)
	if err != nil {
		return db.WriteError("purchasing: update", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	tag, err := r.db.Exec(ctx, `UPDATE purchase_orders SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "number":
		return "year " + dir + ", month " + dir + ", number " + dir
	case "order_date":
		return "order_date " + dir
	default:
		return "created_at " + dir
	}
}
