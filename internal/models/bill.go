package models

import "time"

type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "Unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentStatusFullyPaid     PaymentStatus = "Fully Paid"
)

// PaymentKind tags what a payment entry represents. Direct entries are money
// handed over at the counter; settlement entries record money moving between
// bills and exist so that each bill's payment timeline stays reconcilable.
type PaymentKind string

const (
	// PaymentKindDirect is a counter payment against the bill itself.
	PaymentKindDirect PaymentKind = "direct"
	// PaymentKindSettlementOutflow marks the portion of a bill's payment that
	// was used to clear older bills. Audit-only: it does not count towards
	// the bill's amount_paid.
	PaymentKindSettlementOutflow PaymentKind = "settlement_outflow"
	// PaymentKindSettlementInflow is money received on a bill out of another
	// bill's payment. Counts towards amount_paid.
	PaymentKindSettlementInflow PaymentKind = "settlement_inflow"
)

// Direct payment sources selectable at the counter.
const (
	SourceCash = "Cash"
	SourceUPI  = "UPI"
	SourceCard = "Card"
)

// Legacy source labels the billing UI knows. They are derived from the kind
// on the way out and recognized (outflow only) on the way in; they are not
// user-selectable payment sources.
const (
	SourceSettlementOutflow = "Payment for Previous Bills"
	SourceSettlementInflow  = "Pending Bill Payment"
)

// ValidDirectSource reports whether source is a counter payment source.
func ValidDirectSource(source string) bool {
	switch source {
	case SourceCash, SourceUPI, SourceCard:
		return true
	}
	return false
}

// Payment is one money movement applied to a bill. Entries are append-only;
// insertion order is chronological order.
type Payment struct {
	ID            int         `json:"id,omitempty"`
	BillID        int         `json:"-"`
	Amount        float64     `json:"amount"`
	Kind          PaymentKind `json:"kind"`
	Source        string      `json:"source"`
	SourceBillIDs []string    `json:"source_bill_ids,omitempty"`
	PaidAt        time.Time   `json:"date"`
}

// BillItem is one line of a bill. Everything here is a snapshot frozen at
// creation time; later catalog edits never touch existing bills.
type BillItem struct {
	ID          int      `json:"id,omitempty"`
	BillID      int      `json:"-"`
	SparePartID int      `json:"spare_part_id"`
	Name        string   `json:"name"`
	DeviceModel []string `json:"device_model"`
	Brand       []string `json:"brand,omitempty"`
	BoxNumber   string   `json:"box_number,omitempty"`
	Quantity    int      `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	Subtotal    float64  `json:"subtotal"`
}

// Bill is one sales transaction. bill_id is the human-facing sequence number;
// id is the internal storage key.
type Bill struct {
	ID             int           `json:"id"`
	BillID         string        `json:"bill_id"`
	CustomerID     int           `json:"customer_id"`
	CustomerName   string        `json:"customer_name"`
	CustomerPhone  string        `json:"customer_phone"`
	Items          []BillItem    `json:"items"`
	TotalAmount    float64       `json:"total_amount"`
	DiscountAmount float64       `json:"discount_amount"`
	AmountPaid     float64       `json:"amount_paid"`
	PendingAmount  float64       `json:"pending_amount"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	Payments       []Payment     `json:"payments"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// PendingClearance summarizes what a settlement did to one old bill. It is
// built for the receipt shown after the transaction and is not persisted.
type PendingClearance struct {
	BillID           string  `json:"bill_id"`
	AmountCleared    float64 `json:"amount_cleared"`
	NewPendingAmount float64 `json:"new_pending_amount"`
}

// PaymentInput is a payment entry as submitted by the client. Dates are
// always set server-side.
type PaymentInput struct {
	Amount float64 `json:"amount"`
	Source string  `json:"source"`
}

// BillItemInput is a cart line on a new bill.
type BillItemInput struct {
	SparePartID int     `json:"spare_part_id"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// CreateBillRequest creates a new bill, optionally paying it (and clearing
// older pending bills) in the same transaction. Either CustomerID or the
// name+phone pair for a new customer must be present.
type CreateBillRequest struct {
	CustomerID          int             `json:"customer_id"`
	CustomerName        string          `json:"customer_name"`
	CustomerPhone       string          `json:"customer_phone"`
	Items               []BillItemInput `json:"items"`
	DiscountAmount      float64         `json:"discount_amount"`
	Payments            []PaymentInput  `json:"payments"`
	PendingBillsToClear []string        `json:"pending_bills_to_clear"`
	Notes               string          `json:"notes"`
}

// SettlementInput references one old bill cleared out of a payment recorded
// against an existing bill.
type SettlementInput struct {
	BillID        string  `json:"bill_id"`
	AmountCleared float64 `json:"amount_cleared"`
}

// AddPaymentRequest records payments against an existing bill. Entries with
// the reserved settlement source fund PaidBillHistory instead of the bill
// itself.
type AddPaymentRequest struct {
	Payments        []PaymentInput    `json:"payments"`
	PaidBillHistory []SettlementInput `json:"paid_bill_history,omitempty"`
}

// CreateBillResponse is the receipt payload for a newly created bill.
type CreateBillResponse struct {
	Bill            *Bill              `json:"bill"`
	PaidBillHistory []PendingClearance `json:"paid_bill_history"`
}
