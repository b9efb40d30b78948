package models

import "time"

// Stock status values. Status is derived from quantity on every read; it is
// never stored or set independently.
const (
	StockStatusIn  = "in-stock"
	StockStatusOut = "out-of-stock"
)

// StockStatus derives the display status from a quantity.
func StockStatus(quantity int) string {
	if quantity > 0 {
		return StockStatusIn
	}
	return StockStatusOut
}

type SparePart struct {
	ID          int       `json:"id"`
	Category    string    `json:"category"`
	DeviceModel []string  `json:"device_model"`
	Brand       []string  `json:"brand,omitempty"`
	BoxNumber   string    `json:"box_number,omitempty"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	ImageURL    string    `json:"image_url,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateSparePartRequest struct {
	Category    string   `json:"category"`
	DeviceModel []string `json:"device_model"`
	Brand       []string `json:"brand"`
	BoxNumber   string   `json:"box_number"`
	Quantity    int      `json:"quantity"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	Description string   `json:"description"`
}
