package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"spareparts-backend/internal/models"
	"spareparts-backend/internal/repositories"
	"spareparts-backend/internal/services"
	"spareparts-backend/internal/timeutil"
	"spareparts-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type BillHandler struct {
	billing *services.BillingService
	queries *services.BillQueryService
}

func NewBillHandler(billing *services.BillingService, queries *services.BillQueryService) *BillHandler {
	return &BillHandler{billing: billing, queries: queries}
}

// CreateBill handles POST /api/bills
func (h *BillHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}

	resp, err := h.billing.CreateBill(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, resp)
}

// AddPayment handles PUT /api/bills/{id}
func (h *BillHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid bill id")
		return
	}

	var req models.AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}

	bill, err := h.billing.AddPayment(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, bill)
}

// GetBill handles GET /api/bills/{id}
func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid bill id")
		return
	}

	bill, err := h.queries.GetBill(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, bill)
}

// ListBills handles GET /api/bills with optional filters. With
// getPendingBills=true and a customerId it returns that customer's open
// bills oldest-first instead of the regular listing.
func (h *BillHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("getPendingBills") == "true" {
		customerID, err := strconv.Atoi(q.Get("customerId"))
		if err != nil || customerID <= 0 {
			utils.Error(w, http.StatusBadRequest, "bad_input", "a valid customerId is required with getPendingBills")
			return
		}
		bills, err := h.queries.PendingBillsForCustomer(r.Context(), customerID)
		if err != nil {
			respondError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, bills)
		return
	}

	filter, err := parseBillFilter(q.Get("customerId"), q.Get("status"), q.Get("billId"),
		q.Get("search"), q.Get("startDate"), q.Get("endDate"), q.Get("page"), q.Get("limit"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", err.Error())
		return
	}

	bills, err := h.queries.ListBills(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, bills)
}

func parseBillFilter(customerID, status, billID, search, startDate, endDate, page, limit string) (repositories.BillFilter, error) {
	f := repositories.BillFilter{
		BillID:         billID,
		CustomerSearch: search,
		Page:           1,
		Limit:          20,
	}

	if customerID != "" {
		n, err := strconv.Atoi(customerID)
		if err != nil || n <= 0 {
			return f, errInvalidFilter("customerId")
		}
		f.CustomerID = n
	}

	if status != "" {
		s := models.PaymentStatus(status)
		switch s {
		case models.PaymentStatusUnpaid, models.PaymentStatusPartiallyPaid, models.PaymentStatusFullyPaid:
			f.PaymentStatus = s
		default:
			return f, errInvalidFilter("status")
		}
	}

	if startDate != "" {
		t, err := time.ParseInLocation(timeutil.DateLayout, startDate, timeutil.IST)
		if err != nil {
			return f, errInvalidFilter("startDate")
		}
		start := timeutil.StartOfDay(t)
		f.StartDate = &start
	}
	if endDate != "" {
		t, err := time.ParseInLocation(timeutil.DateLayout, endDate, timeutil.IST)
		if err != nil {
			return f, errInvalidFilter("endDate")
		}
		end := timeutil.EndOfDay(t)
		f.EndDate = &end
	}

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n <= 0 {
			return f, errInvalidFilter("page")
		}
		f.Page = n
	}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 || n > 100 {
			return f, errInvalidFilter("limit")
		}
		f.Limit = n
	}

	return f, nil
}

type filterError string

func (e filterError) Error() string { return "invalid " + string(e) + " parameter" }

func errInvalidFilter(name string) error { return filterError(name) }
