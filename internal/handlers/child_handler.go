package handlers

import (
	"net/http"

	"calmpath/internal/service"
)

// ChildHandler handles child profile writes
type ChildHandler struct {
	childService *service.ChildService
}

// NewChildHandler creates a new child handler
func NewChildHandler(childService *service.ChildService) *ChildHandler {
	return &ChildHandler{childService: childService}
}

// Create adds a child profile
func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ChildInput
	if !decodeJSON(w, r, &req) {
		return
	}

	child, err := h.childService.Create(req)
	if err != nil {
		respondWithServiceError(w, "Error creating child", err)
		return
	}
	respondJSON(w, http.StatusCreated, child)
}

// Update changes the fields present in the body. A currentEmotion field is
// ignored; emotions change through the emotion endpoints.
func (h *ChildHandler) Update(w http.ResponseWriter, r *http.Request) {
	childID, ok := pathID(w, r, "id", service.ErrChildNotFound)
	if !ok {
		return
	}

	var req service.ChildUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	child, err := h.childService.Update(childID, req)
	if err != nil {
		respondWithServiceError(w, "Error updating child", err)
		return
	}
	respondJSON(w, http.StatusOK, child)
}
