package handlers

import (
	"net/http"

	"calmpath/internal/validation"

	"github.com/goccy/go-json"
)

// decodeJSON reads a JSON body into dst and validates it. On failure it
// writes the response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return false
	}
	if err := validation.ValidateStruct(dst); err != nil {
		respondWithServiceError(w, "", err)
		return false
	}
	return true
}
