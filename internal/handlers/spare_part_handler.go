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

// maxImageSize bounds part image uploads at 5 MB.
const maxImageSize = 5 << 20

type SparePartHandler struct {
	service *services.SparePartService
}

func NewSparePartHandler(service *services.SparePartService) *SparePartHandler {
	return &SparePartHandler{service: service}
}

// CreateSparePart handles POST /api/spare-parts
func (h *SparePartHandler) CreateSparePart(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSparePartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}

	part, err := h.service.CreateSparePart(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, part)
}

// GetSparePart handles GET /api/spare-parts/{id}
func (h *SparePartHandler) GetSparePart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid spare part id")
		return
	}

	part, err := h.service.GetSparePart(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, part)
}

// ListSpareParts handles GET /api/spare-parts with an optional search term
// matched against category, device models and brands.
func (h *SparePartHandler) ListSpareParts(w http.ResponseWriter, r *http.Request) {
	parts, err := h.service.ListSpareParts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, parts)
}

// UpdateSparePart handles PUT /api/spare-parts/{id}
func (h *SparePartHandler) UpdateSparePart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid spare part id")
		return
	}

	var req models.CreateSparePartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}

	part, err := h.service.UpdateSparePart(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, part)
}

// DeleteSparePart handles DELETE /api/spare-parts/{id}
func (h *SparePartHandler) DeleteSparePart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid spare part id")
		return
	}

	if err := h.service.DeleteSparePart(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "spare part deleted"})
}

// UploadImage handles POST /api/spare-parts/{id}/image with a multipart form
// carrying an "image" file field.
func (h *SparePartHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid spare part id")
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "bad_input", "an image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		utils.Error(w, http.StatusBadRequest, "bad_input", "only jpeg, png and webp images are accepted")
		return
	}

	part, err := h.service.UploadImage(r.Context(), id, contentType, file)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, part)
}

// PublicInventory handles GET /api/public-inventory. Unauthenticated and
// served from cache when warm.
func (h *SparePartHandler) PublicInventory(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.PublicInventory(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
