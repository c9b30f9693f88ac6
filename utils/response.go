package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"kirana/apperr"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]any{"success": false, "message": msg})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondWithAppError translates a taxonomy error into an HTTP response.
// Internal detail is logged, never echoed to the client.
func RespondWithAppError(w http.ResponseWriter, err error) {
	if apperr.KindOf(err) == apperr.Internal {
		log.Println("internal error:", err)
	}
	body := map[string]any{"success": false, "message": apperr.PublicMessage(err)}
	if rmk := apperr.RemarkOf(err); rmk != "" {
		body["error"] = rmk
	}
	RespondWithJSON(w, apperr.Status(err), body)
}

type M map[string]interface{}
