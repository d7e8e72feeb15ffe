package handlers

import (
	"errors"
	"net/http"

	"calmpath/internal/classifier"
	"calmpath/internal/emotion"
	"calmpath/internal/logging"
	"calmpath/internal/security"
	"calmpath/internal/service"
	"calmpath/internal/validation"

	"github.com/goccy/go-json"
)

// errorResponse is the JSON error envelope
type errorResponse struct {
	Error   string                       `json:"error"`
	Allowed []string                     `json:"allowed,omitempty"`
	Fields  []validation.ValidationError `json:"fields,omitempty"`
	Hint    string                       `json:"hint,omitempty"`
	Tried   []string                     `json:"tried,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		logging.Error().Err(err).Int("status", status).Msg(logMsg)
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps domain errors onto HTTP responses. Anything
// unrecognised is logged and reported as a 500.
func respondWithServiceError(w http.ResponseWriter, logMsg string, err error) {
	var invalidEmotion *emotion.InvalidEmotionError
	var upstream *classifier.UpstreamError
	var fieldErrs validation.Errors
	var fieldErr validation.ValidationError

	switch {
	case matchSentinel(err, notFoundErrors) != nil:
		respondJSON(w, http.StatusNotFound, errorResponse{Error: capitalize(matchSentinel(err, notFoundErrors).Error())})

	case errors.As(err, &invalidEmotion):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid emotion", Allowed: invalidEmotion.Allowed})

	case errors.As(err, &fieldErrs):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: fieldErrs.Error(), Fields: fieldErrs})

	case errors.As(err, &fieldErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: fieldErr.Message, Fields: []validation.ValidationError{fieldErr}})

	case matchSentinel(err, conflictErrors) != nil:
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: capitalize(matchSentinel(err, conflictErrors).Error())})

	case matchSentinel(err, authErrors) != nil:
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: capitalize(matchSentinel(err, authErrors).Error())})

	case errors.As(err, &upstream):
		status := upstream.Status
		if status < 400 || status > 599 {
			status = http.StatusServiceUnavailable
		}
		logging.Warn().Err(err).Int("status", status).Strs("tried", upstream.Tried).Msg(logMsg)
		respondJSON(w, status, errorResponse{Error: upstream.Error(), Hint: upstream.Hint, Tried: upstream.Tried})

	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}

var (
	notFoundErrors = []error{
		service.ErrChildNotFound,
		service.ErrActivityNotFound,
		service.ErrOutcomeNotFound,
		service.ErrCaregiverNotFound,
	}
	conflictErrors = []error{service.ErrEmailTaken, service.ErrUsernameTaken}
	authErrors     = []error{service.ErrInvalidCredentials, security.ErrInvalidToken}
)

// matchSentinel returns the first sentinel in err's chain. Only the
// sentinel's own text reaches the client, never the wrapping context.
func matchSentinel(err error, sentinels []error) error {
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
