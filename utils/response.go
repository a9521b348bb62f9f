package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"sparex/apperr"
)

type M map[string]interface{}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Success writes the standard success envelope.
func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	resp := M{"success": true, "message": message}
	if data != nil {
		resp["data"] = data
	}
	RespondWithJSON(w, statusCode, resp)
}

// Paginated writes a list response with pagination metadata alongside data.
func Paginated(w http.ResponseWriter, message string, data interface{}, p Pagination) {
	RespondWithJSON(w, http.StatusOK, M{
		"success":    true,
		"message":    message,
		"data":       data,
		"pagination": p,
	})
}

// Error translates any error into the failure envelope. Non-apperr errors
// are logged and reported as a plain 500.
func Error(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	if e.Status == http.StatusInternalServerError {
		log.Println("internal error:", err)
	}
	RespondWithJSON(w, e.Status, M{"success": false, "error": e.Message})
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, M{"success": false, "error": msg})
}
