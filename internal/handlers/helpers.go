package handlers

import (
	"encoding/json"
	"net/http"
)

// RequireMethod guards a handler to a single HTTP method, writing a 405 and
// returning false on mismatch. HEAD is accepted wherever GET is, so the
// signal list and ledger endpoints stay probe-friendly.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

// WriteJSON encodes data as the response body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes the {"status":"error","error":...} envelope every signal
// and ledger endpoint returns on failure.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}
