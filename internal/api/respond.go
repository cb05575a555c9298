package api

import (
	"encoding/json"
	"net/http"

	"assessment-system/internal/models"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error writes an error body in the shared {"detail": ...} shape.
func Error(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, models.ErrorResponse{Detail: detail})
}
