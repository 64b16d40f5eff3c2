package business

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

// Repository persists business profiles. Both address books travel with the
// parent row as JSONB arrays.
type Repository interface {
	FetchAll(ctx context.Context, q shared.ListQuery) ([]MyBusinese, int, error)
	Search(ctx context.Context, text string, q shared.ListQuery) ([]MyBusinese, int, error)
	FetchOne(ctx context.Context, id uuid.UUID) (MyBusinese, error)
	FindActiveByName(ctx context.Context, name string) (MyBusinese, error)
	FindActiveByTaxNumber(ctx context.Context, taxNumber string) (MyBusinese, error)
	LastNumber(ctx context.Context) (int, error)
	Create(ctx context.Context, profile MyBusinese) (MyBusinese, error)
	Update(ctx context.Context, profile MyBusinese) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a pgx-backed profile repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const businessColumns = `id, number, name, tax_number, business_addresses, shipping_addresses, created_at, updated_at, deleted_at`

func scanBusiness(row pgx.Row) (MyBusinese, error) {
	var b MyBusinese
	var businessAddrs, shippingAddrs []byte
	err := row.Scan(&b.ID, &b.Number, &b.Name, &b.TaxNumber, &businessAddrs, &shippingAddrs, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt)
	if err != nil {
		return MyBusinese{}, err
	}
	if len(businessAddrs) > 0 {
		if err := json.Unmarshal(businessAddrs, &b.BusinessAddresses); err != nil {
			return MyBusinese{}, err
		}
	}
	if len(shippingAddrs) > 0 {
		if err := json.Unmarshal(shippingAddrs, &b.ShippingAddresses); err != nil {
			return MyBusinese{}, err
		}
	}
	return b, nil
}

func (r *repository) FetchAll(ctx context.Context, q shared.ListQuery) ([]MyBusinese, int, error) {
	where := ` WHERE 1=1`
	if !q.ShowDeleted {
		where += ` AND deleted_at IS NULL`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM my_busineses`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + businessColumns + ` FROM my_busineses` + where +
		` ORDER BY ` + sortOrder(q.SortBy, q.SortDir) + ` LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, q.PerPage, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectBusinesses(rows, total)
}

func (r *repository) Search(ctx context.Context, text string, q shared.ListQuery) ([]MyBusinese, int, error) {
	where := ` WHERE (name ILIKE $1 OR tax_number ILIKE $1`
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
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM my_busineses`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitPos := len(args) + 1
	query := `SELECT ` + businessColumns + ` FROM my_busineses` + where +
		` ORDER BY ` + sortOrder(q.SortBy, q.SortDir) +
		` LIMIT $` + strconv.Itoa(limitPos) + ` OFFSET $` + strconv.Itoa(limitPos+1)
	args = append(args, q.PerPage, q.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectBusinesses(rows, total)
}

func collectBusinesses(rows pgx.Rows, total int) ([]MyBusinese, int, error) {
	var profiles []MyBusinese
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, b)
	}
	return profiles, total, rows.Err()
}

func (r *repository) FetchOne(ctx context.Context, id uuid.UUID) (MyBusinese, error) {
	b, err := scanBusiness(r.db.QueryRow(ctx, `SELECT `+businessColumns+` FROM my_busineses WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return MyBusinese{}, ErrNotFound
	}
	return b, err
}

func (r *repository) FindActiveByName(ctx context.Context, name string) (MyBusinese, error) {
	b, err := scanBusiness(r.db.QueryRow(ctx, `SELECT `+businessColumns+` FROM my_busineses WHERE name = $1 AND deleted_at IS NULL`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return MyBusinese{}, ErrNotFound
	}
	return b, err
}

func (r *repository) FindActiveByTaxNumber(ctx context.Context, taxNumber string) (MyBusinese, error) {
	b, err := scanBusiness(r.db.QueryRow(ctx, `SELECT `+businessColumns+` FROM my_busineses WHERE tax_number = $1 AND deleted_at IS NULL`, taxNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return MyBusinese{}, ErrNotFound
	}
	return b, err
}

// LastNumber includes soft-deleted rows so numbers never repeat.
func (r *repository) LastNumber(ctx context.Context) (int, error) {
	var number int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) FROM my_busineses`).Scan(&number)
	return number, err
}

func (r *repository) Create(ctx context.Context, profile MyBusinese) (MyBusinese, error) {
	businessAddrs, err := json.Marshal(profile.BusinessAddresses)
	if err != nil {
		return MyBusinese{}, err
	}
	shippingAddrs, err := json.Marshal(profile.ShippingAddresses)
	if err != nil {
		return MyBusinese{}, err
	}
	query := `INSERT INTO my_busineses (` + businessColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.db.Exec(ctx, query,
		profile.ID, profile.Number, profile.Name, profile.TaxNumber,
		businessAddrs, shippingAddrs, profile.CreatedAt, profile.UpdatedAt, profile.DeletedAt)
	if err != nil {
		return MyBusinese{}, db.WriteError("business: create", err)
	}
	return profile, nil
}

func (r *repository) Update(ctx context.Context, profile MyBusinese) error {
	businessAddrs, err := json.Marshal(profile.BusinessAddresses)
	if err != nil {
		return err
	}
	shippingAddrs, err := json.Marshal(profile.ShippingAddresses)
	if err != nil {
		return err
	}
	query := `UPDATE my_busineses SET name = $2, tax_number = $3, business_addresses = $4,
		shipping_addresses = $5, updated_at = $6 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, profile.ID, profile.Name, profile.TaxNumber, businessAddrs, shippingAddrs, profile.UpdatedAt)
	if err != nil {
		return db.WriteError("business: update", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	tag, err := r.db.Exec(ctx, `UPDATE my_busineses SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, now)
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
		return "number " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
