package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"spareparts-backend/internal/middleware"
	"spareparts-backend/internal/services"
	"spareparts-backend/pkg/utils"
)

// AdminHandler holds the admin-only operations. Routes using it sit behind
// RequireRole("admin").
type AdminHandler struct {
	billing *services.BillingService
	users   *services.UserService
	totp    *services.TOTPService
}

func NewAdminHandler(billing *services.BillingService, users *services.UserService, totp *services.TOTPService) *AdminHandler {
	return &AdminHandler{billing: billing, users: users, totp: totp}
}

type resetCounterRequest struct {
	TOTPCode string `json:"totp_code"`
}

// ResetBillCounter handles POST /api/admin/counters/bill-id/reset. Destructive:
// the next bill issued after this starts from 1 again. Guarded by the
// admin's TOTP code once enrolled.
func (h *AdminHandler) ResetBillCounter(w http.ResponseWriter, r *http.Request) {
	var req resetCounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.totp.RequireCode(r.Context(), userID, req.TOTPCode); err != nil {
		respondError(w, err)
		return
	}

	if err := h.billing.ResetBillCounter(r.Context()); err != nil {
		respondError(w, err)
		return
	}

	log.Printf("[Admin] bill counter reset by user %d", userID)
	utils.JSON(w, http.StatusOK, map[string]string{"message": "bill counter reset"})
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, users)
}
