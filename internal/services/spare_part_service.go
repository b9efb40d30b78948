package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"spareparts-backend/internal/cache"
	"spareparts-backend/internal/models"
	"spareparts-backend/internal/repositories"
	"spareparts-backend/internal/storage"
	"spareparts-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
)

type SparePartService struct {
	Repo *repositories.SparePartRepository
	R2   *storage.R2Client
}

func NewSparePartService(repo *repositories.SparePartRepository, r2 *storage.R2Client) *SparePartService {
	return &SparePartService{Repo: repo, R2: r2}
}

func (s *SparePartService) CreateSparePart(ctx context.Context, req *models.CreateSparePartRequest) (*models.SparePart, error) {
	if req.Category == "" {
		return nil, invalid("category is required")
	}
	if len(req.DeviceModel) == 0 {
		return nil, invalid("at least one device model is required")
	}
	if req.Quantity < 0 || req.Price < 0 {
		return nil, invalid("quantity and price cannot be negative")
	}

	part := &models.SparePart{
		Category:    req.Category,
		DeviceModel: req.DeviceModel,
		Brand:       req.Brand,
		BoxNumber:   req.BoxNumber,
		Quantity:    req.Quantity,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}
	if err := s.Repo.Create(ctx, part); err != nil {
		return nil, err
	}
	cache.InvalidateKeys(ctx, cache.InventoryKey)
	return part, nil
}

func (s *SparePartService) GetSparePart(ctx context.Context, id int) (*models.SparePart, error) {
	part, err := s.Repo.Get(ctx, s.Repo.DB, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &SparePartNotFoundError{ID: id}
		}
		return nil, err
	}
	return part, nil
}

func (s *SparePartService) UpdateSparePart(ctx context.Context, id int, req *models.CreateSparePartRequest) (*models.SparePart, error) {
	if req.Category == "" {
		return nil, invalid("category is required")
	}
	if req.Quantity < 0 || req.Price < 0 {
		return nil, invalid("quantity and price cannot be negative")
	}

	part := &models.SparePart{
		ID:          id,
		Category:    req.Category,
		DeviceModel: req.DeviceModel,
		Brand:       req.Brand,
		BoxNumber:   req.BoxNumber,
		Quantity:    req.Quantity,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}
	if err := s.Repo.Update(ctx, part); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &SparePartNotFoundError{ID: id}
		}
		return nil, err
	}
	cache.InvalidateKeys(ctx, cache.InventoryKey)
	return part, nil
}

func (s *SparePartService) DeleteSparePart(ctx context.Context, id int) error {
	ok, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &SparePartNotFoundError{ID: id}
	}
	cache.InvalidateKeys(ctx, cache.InventoryKey)
	return nil
}

func (s *SparePartService) ListSpareParts(ctx context.Context, search string) ([]*models.SparePart, error) {
	return s.Repo.List(ctx, search)
}

// PublicInventory is the unauthenticated catalog listing. Cached for a short
// TTL; writes to the catalog invalidate it.
func (s *SparePartService) PublicInventory(ctx context.Context) ([]byte, error) {
	if data, ok := cache.GetCached(ctx, cache.InventoryKey); ok {
		return data, nil
	}

	parts, err := s.Repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(parts)
	if err != nil {
		return nil, err
	}
	cache.SetCached(ctx, cache.InventoryKey, data, 5*time.Minute)
	return data, nil
}

// UploadImage stores a part image in R2 and saves its URL on the part.
func (s *SparePartService) UploadImage(ctx context.Context, id int, contentType string, body io.Reader) (*models.SparePart, error) {
	if s.R2 == nil {
		return nil, invalid("image storage is not configured")
	}

	part, err := s.GetSparePart(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("part-%d-%d", id, timeutil.Now().UnixNano())
	url, err := s.R2.UploadImage(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}

	part.ImageURL = url
	if err := s.Repo.Update(ctx, part); err != nil {
		return nil, err
	}
	cache.InvalidateKeys(ctx, cache.InventoryKey)
	return part, nil
}
