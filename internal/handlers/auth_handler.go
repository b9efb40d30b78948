package handlers

import (
	"encoding/json"
	"net/http"

	"spareparts-backend/internal/middleware"
	"spareparts-backend/internal/models"
	"spareparts-backend/internal/services"
	"spareparts-backend/pkg/utils"
)

type AuthHandler struct {
	users *services.UserService
	totp  *services.TOTPService
}

func NewAuthHandler(users *services.UserService, totp *services.TOTPService) *AuthHandler {
	return &AuthHandler{users: users, totp: totp}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}

	resp, err := h.users.Signup(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}

	resp, err := h.users.Login(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == 0 {
		utils.Error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// SetupTOTP handles POST /api/auth/totp/setup. Generates a fresh secret and
// QR code for the authenticated user.
func (h *AuthHandler) SetupTOTP(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == 0 {
		utils.Error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp, err := h.totp.GenerateSetup(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}
