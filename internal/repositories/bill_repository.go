package repositories

import (
	"context"
	"fmt"
	"time"

	"spareparts-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BillRepository owns the persisted Bill rows (bills, bill_items,
// bill_payments). Balance fields are only ever written from an allocation
// result inside a workflow transaction; payment rows are append-only.
type BillRepository struct {
	DB *pgxpool.Pool
}

func NewBillRepository(db *pgxpool.Pool) *BillRepository {
	return &BillRepository{DB: db}
}

const billColumns = `id, bill_id, customer_id, customer_name, customer_phone,
	       total_amount, discount_amount, amount_paid, pending_amount, payment_status,
	       COALESCE(notes, ''), created_at, updated_at`

func scanBill(row interface{ Scan(dest ...any) error }) (*models.Bill, error) {
	bill := &models.Bill{}
	err := row.Scan(
		&bill.ID,
		&bill.BillID,
		&bill.CustomerID,
		&bill.CustomerName,
		&bill.CustomerPhone,
		&bill.TotalAmount,
		&bill.DiscountAmount,
		&bill.AmountPaid,
		&bill.PendingAmount,
		&bill.PaymentStatus,
		&bill.Notes,
		&bill.CreatedAt,
		&bill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// Insert persists a new bill header on the caller's transaction.
func (r *BillRepository) Insert(ctx context.Context, q Querier, bill *models.Bill) error {
	return q.QueryRow(ctx,
		`INSERT INTO bills (bill_id, customer_id, customer_name, customer_phone,
		                    total_amount, discount_amount, amount_paid, pending_amount,
		                    payment_status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		bill.BillID, bill.CustomerID, bill.CustomerName, bill.CustomerPhone,
		bill.TotalAmount, bill.DiscountAmount, bill.AmountPaid, bill.PendingAmount,
		bill.PaymentStatus, bill.Notes,
	).Scan(&bill.ID, &bill.CreatedAt, &bill.UpdatedAt)
}

// InsertItems persists the frozen line-item snapshots of a bill.
func (r *BillRepository) InsertItems(ctx context.Context, q Querier, billID int, items []models.BillItem) error {
	for i := range items {
		item := &items[i]
		err := q.QueryRow(ctx,
			`INSERT INTO bill_items (bill_id, spare_part_id, name, device_model, brand,
			                         box_number, quantity, unit_price, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id`,
			billID, item.SparePartID, item.Name, item.DeviceModel, item.Brand,
			item.BoxNumber, item.Quantity, item.UnitPrice, item.Subtotal,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert bill item: %w", err)
		}
		item.BillID = billID
	}
	return nil
}

// AppendPayments appends payment entries to a bill. Entries are never edited
// or removed; insertion order is the timeline order.
func (r *BillRepository) AppendPayments(ctx context.Context, q Querier, billID int, payments []models.Payment) error {
	for i := range payments {
		p := &payments[i]
		err := q.QueryRow(ctx,
			`INSERT INTO bill_payments (bill_id, amount, kind, source, source_bill_ids, paid_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			billID, p.Amount, p.Kind, p.Source, p.SourceBillIDs, p.PaidAt,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("failed to append payment: %w", err)
		}
		p.BillID = billID
	}
	return nil
}

// UpdateBalances writes back an allocation result for one bill.
func (r *BillRepository) UpdateBalances(ctx context.Context, q Querier, id int, amountPaid, pendingAmount float64, status models.PaymentStatus) error {
	tag, err := q.Exec(ctx,
		`UPDATE bills
		 SET amount_paid = $1, pending_amount = $2, payment_status = $3, updated_at = NOW()
		 WHERE id = $4`,
		amountPaid, pendingAmount, status, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("bill %d not found while updating balances", id)
	}
	return nil
}

// Get loads one bill header.
func (r *BillRepository) Get(ctx context.Context, q Querier, id int) (*models.Bill, error) {
	return scanBill(q.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id))
}

// GetForUpdate loads one bill header and locks the row for the rest of the
// transaction, so a concurrent payment cannot validate against a stale
// pending amount.
func (r *BillRepository) GetForUpdate(ctx context.Context, q Querier, id int) (*models.Bill, error) {
	return scanBill(q.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1 FOR UPDATE`, id))
}

// GetByBillIDForUpdate is GetForUpdate keyed by the human-facing bill id.
func (r *BillRepository) GetByBillIDForUpdate(ctx context.Context, q Querier, billID string) (*models.Bill, error) {
	return scanBill(q.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE bill_id = $1 FOR UPDATE`, billID))
}

// ListPendingForUpdate loads and locks the settlement candidates among the
// given bill ids: only bills that still owe money, oldest-created-first. The
// ordering is load-bearing — it decides which debts are cleared first.
func (r *BillRepository) ListPendingForUpdate(ctx context.Context, q Querier, billIDs []string) ([]*models.Bill, error) {
	rows, err := q.Query(ctx,
		`SELECT `+billColumns+` FROM bills
		 WHERE bill_id = ANY($1) AND pending_amount > 0
		 ORDER BY created_at ASC
		 FOR UPDATE`, billIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

func (r *BillRepository) loadItems(ctx context.Context, q Querier, billID int) ([]models.BillItem, error) {
	rows, err := q.Query(ctx,
		`SELECT id, bill_id, spare_part_id, name, device_model, COALESCE(brand, '{}'),
		        COALESCE(box_number, ''), quantity, unit_price, subtotal
		 FROM bill_items WHERE bill_id = $1 ORDER BY id`, billID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.BillItem{}
	for rows.Next() {
		var item models.BillItem
		err := rows.Scan(&item.ID, &item.BillID, &item.SparePartID, &item.Name,
			&item.DeviceModel, &item.Brand, &item.BoxNumber,
			&item.Quantity, &item.UnitPrice, &item.Subtotal)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *BillRepository) loadPayments(ctx context.Context, q Querier, billID int) ([]models.Payment, error) {
	rows, err := q.Query(ctx,
		`SELECT id, bill_id, amount, kind, COALESCE(source, ''), COALESCE(source_bill_ids, '{}'), paid_at
		 FROM bill_payments WHERE bill_id = $1 ORDER BY id`, billID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		err := rows.Scan(&p.ID, &p.BillID, &p.Amount, &p.Kind, &p.Source, &p.SourceBillIDs, &p.PaidAt)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// GetDetailed loads a bill with its items and full payment timeline.
func (r *BillRepository) GetDetailed(ctx context.Context, q Querier, id int) (*models.Bill, error) {
	bill, err := r.Get(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if bill.Items, err = r.loadItems(ctx, q, id); err != nil {
		return nil, err
	}
	if bill.Payments, err = r.loadPayments(ctx, q, id); err != nil {
		return nil, err
	}
	return bill, nil
}

// BillFilter is the read-side filter for bill listings.
type BillFilter struct {
	CustomerID     int
	PaymentStatus  models.PaymentStatus
	BillID         string
	CustomerSearch string
	StartDate      *time.Time
	EndDate        *time.Time
	Page           int
	Limit          int
}

// List returns bill headers matching the filter, newest first, paginated.
func (r *BillRepository) List(ctx context.Context, f BillFilter) ([]*models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills`
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CustomerID != 0 {
		conditions = append(conditions, "customer_id = "+arg(f.CustomerID))
	}
	if f.PaymentStatus != "" {
		conditions = append(conditions, "payment_status = "+arg(f.PaymentStatus))
	}
	if f.BillID != "" {
		conditions = append(conditions, "bill_id = "+arg(f.BillID))
	}
	if f.CustomerSearch != "" {
		p := arg(f.CustomerSearch)
		conditions = append(conditions,
			"(customer_name ILIKE '%' || "+p+" || '%' OR customer_phone ILIKE '%' || "+p+" || '%')")
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= "+arg(*f.StartDate))
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= "+arg(*f.EndDate))
	}

	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	query += " ORDER BY created_at DESC LIMIT " + arg(limit) + " OFFSET " + arg((page-1)*limit)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

// ListPendingByCustomer returns the customer's open bills, oldest first, with
// items and payments populated. This is the settlement-candidate list the
// billing screen shows next to a new bill.
func (r *BillRepository) ListPendingByCustomer(ctx context.Context, customerID int) ([]*models.Bill, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+billColumns+` FROM bills
		 WHERE customer_id = $1 AND pending_amount > 0
		 ORDER BY created_at ASC`, customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, bill := range bills {
		if bill.Items, err = r.loadItems(ctx, r.DB, bill.ID); err != nil {
			return nil, err
		}
		if bill.Payments, err = r.loadPayments(ctx, r.DB, bill.ID); err != nil {
			return nil, err
		}
	}
	return bills, nil
}
