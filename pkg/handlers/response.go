package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse writes the client error envelope and returns any encoding
// error. All pipeline failures funnel into this single shape.
func ErrorResponse(w http.ResponseWriter, statusCode int, detail string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"detail": detail,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}
