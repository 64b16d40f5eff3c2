package products

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

// Repository persists products. Variants travel with the parent row as a
// JSONB array, so every save writes the whole aggregate.
type Repository interface {
	FetchAll(ctx context.Context, q shared.ListQuery) ([]Product, int, error)
	Search(ctx context.Context, text string, q shared.ListQuery) ([]Product, int, error)
	FetchOne(ctx context.Context, id uuid.UUID) (Product, error)
	FindActiveByName(ctx context.Context, name string) (Product, error)
	LastNumber(ctx context.Context) (int, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a pgx-backed product repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const productColumns = `id, number, name, description, price, category_id, variants, created_at, updated_at, deleted_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var variants []byte
	err := row.Scan(&p.ID, &p.Number, &p.Name, &p.Description, &p.Price, &p.CategoryID, &variants, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return Product{}, err
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return Product{}, err
		}
	}
	return p, nil
}

func (r *repository) FetchAll(ctx context.Context, q shared.ListQuery) ([]Product, int, error) {
	where := ` WHERE 1=1`
	if !q.ShowDeleted {
		where += ` AND deleted_at IS NULL`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY ` + sortOrder(q.SortBy, q.SortDir) + ` LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, q.PerPage, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectProducts(rows, total)
}

func (r *repository) Search(ctx context.Context, text string, q shared.ListQuery) ([]Product, int, error) {
	where := ` WHERE (name ILIKE $1 OR description ILIKE $1`
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
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitPos := len(args) + 1
	query := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY ` + sortOrder(q.SortBy, q.SortDir) +
		` LIMIT $` + strconv.Itoa(limitPos) + ` OFFSET $` + strconv.Itoa(limitPos+1)
	args = append(args, q.PerPage, q.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectProducts(rows, total)
}

func collectProducts(rows pgx.Rows, total int) ([]Product, int, error) {
	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) FetchOne(ctx context.Context, id uuid.UUID) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *repository) FindActiveByName(ctx context.Context, name string) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE name = $1 AND deleted_at IS NULL`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

// LastNumber includes soft-deleted rows so numbers never repeat.
func (r *repository) LastNumber(ctx context.Context) (int, error) {
	var number int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) FROM products`).Scan(&number)
	return number, err
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	variants, err := json.Marshal(product.Variants)
	if err != nil {
		return Product{}, err
	}
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.db.Exec(ctx, query,
		product.ID, product.Number, product.Name, product.Description, product.Price,
		product.CategoryID, variants, product.CreatedAt, product.UpdatedAt, product.DeletedAt)
	if err != nil {
		return Product{}, db.WriteError("products: create", err)
	}
	return product, nil
}

func (r *repository) Update(ctx context.Context, product Product) error {
	variants, err := json.Marshal(product.Variants)
	if err != nil {
		return err
	}
	query := `UPDATE products SET name = $2, description = $3, price = $4, category_id = $5,
		variants = $6, updated_at = $7 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.CategoryID,
		variants, product.UpdatedAt)
	if err != nil {
		return db.WriteError("products: update", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	tag, err := r.db.Exec(ctx, `UPDATE products SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, now)
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
	case "price":
		return "price " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
