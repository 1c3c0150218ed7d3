package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/passbook/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// domainError writes an error response with status for the typed model
// errors and reports whether err was one of them.
func domainError(w http.ResponseWriter, status int, err error) bool {
	var (
		enumErr     *model.InvalidEnumValueError
		relationErr *model.MissingRequiredRelationError
		fieldErr    *model.MissingRequiredFieldError
	)
	if errors.As(err, &enumErr) || errors.As(err, &relationErr) || errors.As(err, &fieldErr) {
		jsonError(w, status, err.Error())
		return true
	}
	return false
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}
