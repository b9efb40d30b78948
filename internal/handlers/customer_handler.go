package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"spareparts-backend/internal/models"
	"spareparts-backend/internal/services"
	"spareparts-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type CustomerHandler struct {
	service *services.CustomerService
}

func NewCustomerHandler(service *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// CreateCustomer handles POST /api/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, customer)
}

// GetCustomer handles GET /api/customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid customer id")
		return
	}

	customer, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, customer)
}

// ListCustomers handles GET /api/customers. With a phone query parameter it
// does a point lookup instead of listing everyone.
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	if phone := r.URL.Query().Get("phone"); phone != "" {
		customer, err := h.service.SearchByPhone(r.Context(), phone)
		if err != nil {
			respondError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, customer)
		return
	}

	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, customers)
}

// UpdateCustomer handles PUT /api/customers/{id}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid customer id")
		return
	}

	var req models.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /api/customers/{id}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid customer id")
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "customer deleted"})
}
