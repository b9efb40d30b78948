package services

import (
	"context"
	"errors"

	"spareparts-backend/internal/models"
	"spareparts-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
)

// BillQueryService is the read side: filtered listings and the
// settlement-candidate lookup. No mutations here.
type BillQueryService struct {
	Bills *repositories.BillRepository
}

func NewBillQueryService(bills *repositories.BillRepository) *BillQueryService {
	return &BillQueryService{Bills: bills}
}

func (s *BillQueryService) ListBills(ctx context.Context, filter repositories.BillFilter) ([]*models.Bill, error) {
	return s.Bills.List(ctx, filter)
}

// GetBill returns one bill with items and the full payment timeline.
func (s *BillQueryService) GetBill(ctx context.Context, id int) (*models.Bill, error) {
	bill, err := s.Bills.GetDetailed(ctx, s.Bills.DB, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	return bill, nil
}

// PendingBillsForCustomer returns the customer's open bills oldest-first,
// the list the billing screen offers as settlement candidates.
func (s *BillQueryService) PendingBillsForCustomer(ctx context.Context, customerID int) ([]*models.Bill, error) {
	return s.Bills.ListPendingByCustomer(ctx, customerID)
}
