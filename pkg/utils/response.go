package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorBody is the uniform error payload for every non-2xx response.
type ErrorBody struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[Response] encode error: %v", err)
	}
}

// Error writes a structured error response.
func Error(w http.ResponseWriter, status int, category, message string) {
	JSON(w, status, ErrorBody{Category: category, Message: message})
}
