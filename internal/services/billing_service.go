package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"spareparts-backend/internal/billing"
	"spareparts-backend/internal/metrics"
	"spareparts-backend/internal/models"
	"spareparts-backend/internal/repositories"
	"spareparts-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BillingService runs the two write-side workflows: bill creation and
// recording payments against an existing bill. Each invocation is one
// transaction; every read and write of bill balances, stock and the bill-id
// counter happens inside it, so no partially-applied billing state is ever
// observable.
type BillingService struct {
	DB        *pgxpool.Pool
	Bills     *repositories.BillRepository
	Parts     *repositories.SparePartRepository
	Customers *repositories.CustomerRepository
	Sequences *repositories.SequenceRepository
}

func NewBillingService(
	db *pgxpool.Pool,
	bills *repositories.BillRepository,
	parts *repositories.SparePartRepository,
	customers *repositories.CustomerRepository,
	sequences *repositories.SequenceRepository,
) *BillingService {
	return &BillingService{
		DB:        db,
		Bills:     bills,
		Parts:     parts,
		Customers: customers,
		Sequences: sequences,
	}
}

func validateCreateBill(req *models.CreateBillRequest) error {
	if req.CustomerID == 0 && (req.CustomerName == "" || req.CustomerPhone == "") {
		return invalid("a customer reference or a customer name and phone is required")
	}
	if len(req.Items) == 0 {
		return invalid("a bill needs at least one item")
	}
	for _, item := range req.Items {
		if item.SparePartID == 0 {
			return invalid("every item needs a spare part reference")
		}
		if item.Quantity <= 0 {
			return invalid("item quantity must be positive")
		}
		if item.UnitPrice < 0 {
			return invalid("item unit price cannot be negative")
		}
	}
	if req.DiscountAmount < 0 {
		return invalid("discount amount cannot be negative")
	}
	for _, p := range req.Payments {
		if p.Amount <= 0 {
			return invalid("payment amount must be positive")
		}
		if !models.ValidDirectSource(p.Source) {
			return invalid("invalid payment source %q", p.Source)
		}
	}
	return nil
}

// CreateBill builds a new bill from a cart, decrements stock, and runs the
// submitted payment through the allocator (older pending bills first, the
// remainder onto the new bill), all in one transaction.
func (s *BillingService) CreateBill(ctx context.Context, req *models.CreateBillRequest) (*models.CreateBillResponse, error) {
	if err := validateCreateBill(req); err != nil {
		return nil, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Resolve the customer and freeze the name/phone snapshot. Snapshots are
	// never resynced when the customer record changes later.
	customerName := req.CustomerName
	customerPhone := req.CustomerPhone
	customerID := req.CustomerID
	if customerID != 0 {
		customer, err := s.Customers.Get(ctx, tx, customerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrCustomerNotFound
			}
			return nil, err
		}
		if customerName == "" {
			customerName = customer.Name
		}
		if customerPhone == "" {
			customerPhone = customer.Phone
		}
	} else {
		customer := &models.Customer{Name: req.CustomerName, Phone: req.CustomerPhone}
		if err := s.Customers.CreateTx(ctx, tx, customer); err != nil {
			return nil, fmt.Errorf("failed to create customer: %w", err)
		}
		customerID = customer.ID
	}

	seq, err := s.Sequences.Next(ctx, tx, repositories.BillIDCounter)
	if err != nil {
		return nil, err
	}
	newBillID := strconv.FormatInt(seq, 10)

	// Stock check-and-decrement per cart line. The decrement is conditional
	// on sufficient quantity, so two concurrent bills can never oversubscribe
	// the same part.
	var items []models.BillItem
	var totalBeforeDiscount float64
	for _, line := range req.Items {
		part, err := s.Parts.Get(ctx, tx, line.SparePartID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &SparePartNotFoundError{ID: line.SparePartID}
			}
			return nil, err
		}
		ok, err := s.Parts.DecrementQuantity(ctx, tx, line.SparePartID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &InsufficientStockError{
				Category:  part.Category,
				Available: part.Quantity,
				Requested: line.Quantity,
			}
		}

		subtotal := float64(line.Quantity) * line.UnitPrice
		items = append(items, models.BillItem{
			SparePartID: part.ID,
			Name:        part.Category,
			DeviceModel: part.DeviceModel,
			Brand:       part.Brand,
			BoxNumber:   part.BoxNumber,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    subtotal,
		})
		totalBeforeDiscount += subtotal
	}

	totalAmount := totalBeforeDiscount - req.DiscountAmount
	if totalAmount < 0 {
		return nil, invalid("discount (₹%.2f) exceeds the bill total (₹%.2f)", req.DiscountAmount, totalBeforeDiscount)
	}

	// Settlement candidates: only bills that still owe money, locked for this
	// transaction, oldest first.
	var pendingBills []*models.Bill
	if len(req.PendingBillsToClear) > 0 {
		pendingBills, err = s.Bills.ListPendingForUpdate(ctx, tx, req.PendingBillsToClear)
		if err != nil {
			return nil, err
		}
	}
	targets := make([]billing.TargetBill, 0, len(pendingBills))
	byBillID := make(map[string]*models.Bill, len(pendingBills))
	for _, b := range pendingBills {
		targets = append(targets, billing.TargetBill{
			BillID:        b.BillID,
			AmountPaid:    b.AmountPaid,
			PendingAmount: b.PendingAmount,
		})
		byBillID[b.BillID] = b
	}

	alloc, err := billing.Allocate(billing.Input{
		CurrentBillID:  newBillID,
		CurrentPending: totalAmount,
		Payments:       req.Payments,
		OtherBills:     targets,
		Now:            timeutil.Now(),
	})
	if err != nil {
		return nil, err
	}

	newBill := &models.Bill{
		BillID:         newBillID,
		CustomerID:     customerID,
		CustomerName:   customerName,
		CustomerPhone:  customerPhone,
		TotalAmount:    totalAmount,
		DiscountAmount: req.DiscountAmount,
		AmountPaid:     alloc.Current.AmountPaid,
		PendingAmount:  alloc.Current.PendingAmount,
		PaymentStatus:  alloc.Current.Status,
		Notes:          req.Notes,
	}
	if err := s.Bills.Insert(ctx, tx, newBill); err != nil {
		return nil, fmt.Errorf("failed to insert bill: %w", err)
	}
	if err := s.Bills.InsertItems(ctx, tx, newBill.ID, items); err != nil {
		return nil, err
	}
	if err := s.Bills.AppendPayments(ctx, tx, newBill.ID, alloc.Current.NewPayments); err != nil {
		return nil, err
	}

	for _, settled := range alloc.Settled {
		old := byBillID[settled.BillID]
		if err := s.Bills.UpdateBalances(ctx, tx, old.ID, settled.AmountPaid, settled.PendingAmount, settled.Status); err != nil {
			return nil, err
		}
		if err := s.Bills.AppendPayments(ctx, tx, old.ID, settled.NewPayments); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit bill creation: %w", err)
	}

	metrics.BillsCreatedTotal.Inc()
	metrics.SettlementsAppliedTotal.Add(float64(len(alloc.Settled)))

	newBill.Items = items
	newBill.Payments = alloc.Current.NewPayments
	return &models.CreateBillResponse{
		Bill:            newBill,
		PaidBillHistory: append([]models.PendingClearance{}, alloc.Clearances...),
	}, nil
}

// partitionPayments splits submitted entries into direct counter payments and
// the reserved settlement-outflow marker. The reserved label funds the
// settlement list, never the bill itself; any other unknown source is
// rejected.
func partitionPayments(inputs []models.PaymentInput) (direct []models.PaymentInput, settlementPool float64, err error) {
	for _, p := range inputs {
		if p.Amount <= 0 {
			return nil, 0, invalid("payment amount must be positive")
		}
		switch {
		case models.ValidDirectSource(p.Source):
			direct = append(direct, p)
		case p.Source == models.SourceSettlementOutflow:
			settlementPool += p.Amount
		default:
			return nil, 0, invalid("invalid payment source %q", p.Source)
		}
	}
	return direct, settlementPool, nil
}

// AddPayment records payments against an existing bill, optionally clearing
// other pending bills out of the same payment pool, atomically. A settlement
// target that has disappeared (or was cleared by a racing payment) is skipped
// with a log line rather than failing the whole transaction: the settlement
// list is advisory, computed on the client slightly before this call.
func (s *BillingService) AddPayment(ctx context.Context, billID int, req *models.AddPaymentRequest) (*models.Bill, error) {
	direct, _, err := partitionPayments(req.Payments)
	if err != nil {
		return nil, err
	}
	if len(direct) == 0 && len(req.PaidBillHistory) == 0 {
		return nil, invalid("at least one payment is required")
	}
	for _, settlement := range req.PaidBillHistory {
		if settlement.BillID == "" {
			return nil, invalid("settlement entries need a bill id")
		}
		if settlement.AmountCleared <= 0 {
			return nil, invalid("settlement amount must be positive")
		}
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The pending amount is read under a row lock inside this transaction;
	// a concurrent payment against the same bill waits here instead of
	// validating against a stale balance.
	bill, err := s.Bills.GetForUpdate(ctx, tx, billID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}

	var directSum float64
	for _, p := range direct {
		directSum += p.Amount
	}
	if directSum > bill.PendingAmount {
		return nil, &billing.ExceedsPendingError{Amount: directSum, Pending: bill.PendingAmount}
	}

	now := timeutil.Now()
	entries := make([]models.Payment, 0, len(direct)+1)
	for _, p := range direct {
		entries = append(entries, models.Payment{
			Amount: p.Amount,
			Kind:   models.PaymentKindDirect,
			Source: p.Source,
			PaidAt: now,
		})
	}

	var clearedTotal float64
	var clearedBillIDs []string
	for _, settlement := range req.PaidBillHistory {
		old, err := s.Bills.GetByBillIDForUpdate(ctx, tx, settlement.BillID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				log.Printf("[Billing] settlement target bill %s no longer exists, skipping", settlement.BillID)
				continue
			}
			return nil, err
		}
		if old.PendingAmount <= 0 {
			log.Printf("[Billing] settlement target bill %s already cleared, skipping", settlement.BillID)
			continue
		}

		amountToClear := min(settlement.AmountCleared, old.PendingAmount)
		newPaid := old.AmountPaid + amountToClear
		newPending, status := billing.SettleBalance(newPaid, old.PendingAmount-amountToClear)
		if err := s.Bills.UpdateBalances(ctx, tx, old.ID, newPaid, newPending, status); err != nil {
			return nil, err
		}
		inflow := []models.Payment{{
			Amount:        amountToClear,
			Kind:          models.PaymentKindSettlementInflow,
			Source:        models.SourceSettlementInflow,
			SourceBillIDs: []string{bill.BillID},
			PaidAt:        now,
		}}
		if err := s.Bills.AppendPayments(ctx, tx, old.ID, inflow); err != nil {
			return nil, err
		}
		clearedTotal += amountToClear
		clearedBillIDs = append(clearedBillIDs, old.BillID)
	}

	if clearedTotal > 0 {
		entries = append(entries, models.Payment{
			Amount:        clearedTotal,
			Kind:          models.PaymentKindSettlementOutflow,
			Source:        models.SourceSettlementOutflow,
			SourceBillIDs: clearedBillIDs,
			PaidAt:        now,
		})
	}

	newPaid := bill.AmountPaid + directSum
	newPending, status := billing.SettleBalance(newPaid, bill.PendingAmount-directSum)
	if err := s.Bills.UpdateBalances(ctx, tx, bill.ID, newPaid, newPending, status); err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		if err := s.Bills.AppendPayments(ctx, tx, bill.ID, entries); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	metrics.SettlementsAppliedTotal.Add(float64(len(clearedBillIDs)))

	return s.Bills.GetDetailed(ctx, s.DB, bill.ID)
}

// ResetBillCounter sets the bill-id sequence back to zero. Destructive;
// meant for test/staging resets only.
func (s *BillingService) ResetBillCounter(ctx context.Context) error {
	return s.Sequences.Reset(ctx, repositories.BillIDCounter)
}
