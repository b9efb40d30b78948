package handlers

import (
	"errors"
	"log"
	"net/http"

	"spareparts-backend/internal/billing"
	"spareparts-backend/internal/services"
	"spareparts-backend/pkg/utils"
)

// respondError maps service errors onto HTTP status codes. Anything not
// recognised is an infrastructure failure and stays opaque to the client.
func respondError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	var stockErr *services.InsufficientStockError
	var partNotFound *services.SparePartNotFoundError
	var exceedsErr *billing.ExceedsPendingError

	switch {
	case errors.As(err, &validationErr):
		utils.Error(w, http.StatusBadRequest, "bad_input", validationErr.Error())
	case errors.As(err, &partNotFound):
		utils.Error(w, http.StatusNotFound, "not_found", partNotFound.Error())
	case errors.Is(err, services.ErrBillNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrUserNotFound):
		utils.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &stockErr):
		utils.Error(w, http.StatusConflict, "conflict", stockErr.Error())
	case errors.As(err, &exceedsErr):
		utils.Error(w, http.StatusConflict, "conflict", exceedsErr.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidTOTPCode):
		utils.Error(w, http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		log.Printf("[Handler] internal error: %v", err)
		utils.Error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
