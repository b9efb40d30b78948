package repositories

import (
	"context"
	"fmt"

	"spareparts-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SparePartRepository struct {
	DB *pgxpool.Pool
}

func NewSparePartRepository(db *pgxpool.Pool) *SparePartRepository {
	return &SparePartRepository{DB: db}
}

const sparePartColumns = `id, category, device_model, COALESCE(brand, '{}'), COALESCE(box_number, ''),
	       quantity, price, COALESCE(image_url, ''), COALESCE(description, ''), created_at, updated_at`

func scanSparePart(row interface{ Scan(dest ...any) error }) (*models.SparePart, error) {
	part := &models.SparePart{}
	err := row.Scan(
		&part.ID,
		&part.Category,
		&part.DeviceModel,
		&part.Brand,
		&part.BoxNumber,
		&part.Quantity,
		&part.Price,
		&part.ImageURL,
		&part.Description,
		&part.CreatedAt,
		&part.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	part.Status = models.StockStatus(part.Quantity)
	return part, nil
}

// Get loads one spare part on the given querier (pool for plain reads, tx
// inside a bill creation).
func (r *SparePartRepository) Get(ctx context.Context, q Querier, id int) (*models.SparePart, error) {
	row := q.QueryRow(ctx, `SELECT `+sparePartColumns+` FROM spare_parts WHERE id = $1`, id)
	return scanSparePart(row)
}

// DecrementQuantity takes qty units of stock if and only if enough is
// available, as a single conditional update. Returns false when stock was
// insufficient (or the part vanished); the caller decides which it was.
func (r *SparePartRepository) DecrementQuantity(ctx context.Context, q Querier, id, qty int) (bool, error) {
	tag, err := q.Exec(ctx,
		`UPDATE spare_parts
		 SET quantity = quantity - $1, updated_at = NOW()
		 WHERE id = $2 AND quantity >= $1`, qty, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock for part %d: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SparePartRepository) Create(ctx context.Context, part *models.SparePart) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO spare_parts (category, device_model, brand, box_number, quantity, price, image_url, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		part.Category, part.DeviceModel, part.Brand, part.BoxNumber,
		part.Quantity, part.Price, part.ImageURL, part.Description,
	).Scan(&part.ID, &part.CreatedAt, &part.UpdatedAt)
	if err != nil {
		return err
	}
	part.Status = models.StockStatus(part.Quantity)
	return nil
}

func (r *SparePartRepository) Update(ctx context.Context, part *models.SparePart) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE spare_parts
		 SET category = $1, device_model = $2, brand = $3, box_number = $4,
		     quantity = $5, price = $6, image_url = $7, description = $8, updated_at = NOW()
		 WHERE id = $9
		 RETURNING created_at, updated_at`,
		part.Category, part.DeviceModel, part.Brand, part.BoxNumber,
		part.Quantity, part.Price, part.ImageURL, part.Description, part.ID,
	).Scan(&part.CreatedAt, &part.UpdatedAt)
	if err != nil {
		return err
	}
	part.Status = models.StockStatus(part.Quantity)
	return nil
}

func (r *SparePartRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM spare_parts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// List returns the catalog, optionally filtered by a category/model/brand
// text search.
func (r *SparePartRepository) List(ctx context.Context, search string) ([]*models.SparePart, error) {
	query := `SELECT ` + sparePartColumns + ` FROM spare_parts`
	args := []any{}
	if search != "" {
		query += ` WHERE category ILIKE '%' || $1 || '%'
		           OR EXISTS (SELECT 1 FROM unnest(device_model) dm WHERE dm ILIKE '%' || $1 || '%')
		           OR EXISTS (SELECT 1 FROM unnest(brand) b WHERE b ILIKE '%' || $1 || '%')`
		args = append(args, search)
	}
	query += ` ORDER BY category, id`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []*models.SparePart
	for rows.Next() {
		part, err := scanSparePart(rows)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, rows.Err()
}
