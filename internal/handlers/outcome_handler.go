package handlers

import (
	"net/http"
	"strconv"

	"calmpath/internal/models"
	"calmpath/internal/service"
)

// OutcomeHandler handles activity outcome reports
type OutcomeHandler struct {
	outcomeService *service.OutcomeService
}

// NewOutcomeHandler creates a new outcome handler
func NewOutcomeHandler(outcomeService *service.OutcomeService) *OutcomeHandler {
	return &OutcomeHandler{outcomeService: outcomeService}
}

// Create records an outcome for the authenticated caregiver
func (h *OutcomeHandler) Create(w http.ResponseWriter, r *http.Request) {
	caregiver := GetCaregiverFromContext(r.Context())
	if caregiver == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req service.OutcomeInput
	if !decodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.outcomeService.Record(caregiver.ID, req)
	if err != nil {
		respondWithServiceError(w, "Error recording outcome", err)
		return
	}
	respondJSON(w, http.StatusCreated, outcome)
}

// List returns outcomes, newest first, filtered by ?childId= and ?activityId=
func (h *OutcomeHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var filter models.OutcomeFilter
	for name, dst := range map[string]*int64{"childId": &filter.ChildID, "activityId": &filter.ActivityID} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid "+name, "", nil)
			return
		}
		*dst = id
	}

	outcomes, err := h.outcomeService.List(filter)
	if err != nil {
		respondWithServiceError(w, "Error listing outcomes", err)
		return
	}
	respondJSON(w, http.StatusOK, outcomes)
}

// Get returns one outcome
func (h *OutcomeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", service.ErrOutcomeNotFound)
	if !ok {
		return
	}
	outcome, err := h.outcomeService.Get(id)
	if err != nil {
		respondWithServiceError(w, "Error getting outcome", err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}
