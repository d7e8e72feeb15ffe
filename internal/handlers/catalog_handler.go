package handlers

import (
	"net/http"
	"strconv"

	"calmpath/internal/recommend"
	"calmpath/internal/service"
)

// CatalogHandler serves activities, child profiles and recommendations
type CatalogHandler struct {
	catalogService   *service.CatalogService
	recommendService *service.RecommendationService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService, recommendService *service.RecommendationService) *CatalogHandler {
	return &CatalogHandler{
		catalogService:   catalogService,
		recommendService: recommendService,
	}
}

// ListActivities returns the catalog, filtered by ?category= when given
func (h *CatalogHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalogService.Activities(r.URL.Query().Get("category")))
}

// GetActivity returns one activity
func (h *CatalogHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", service.ErrActivityNotFound)
	if !ok {
		return
	}
	activity, err := h.catalogService.Activity(id)
	if err != nil {
		respondWithServiceError(w, "Error getting activity", err)
		return
	}
	respondJSON(w, http.StatusOK, activity)
}

// ListCategories returns the distinct activity categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalogService.Categories())
}

// ListChildren returns every child profile
func (h *CatalogHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.catalogService.Children()
	if err != nil {
		respondWithServiceError(w, "Error listing children", err)
		return
	}
	respondJSON(w, http.StatusOK, children)
}

// GetChild returns one child profile
func (h *CatalogHandler) GetChild(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", service.ErrChildNotFound)
	if !ok {
		return
	}
	child, err := h.catalogService.Child(id)
	if err != nil {
		respondWithServiceError(w, "Error getting child", err)
		return
	}
	respondJSON(w, http.StatusOK, child)
}

// Recommendations returns the ranked activities for a child. A missing,
// non-numeric or non-positive ?limit= falls back to the default. With
// ?explain=true each entry carries its score breakdown.
func (h *CatalogHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	childID, err := strconv.ParseInt(r.PathValue("childId"), 10, 64)
	if err != nil {
		// unknown child ids yield an empty list, not an error
		respondJSON(w, http.StatusOK, []struct{}{})
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = recommend.DefaultLimit
	}

	if explain, _ := strconv.ParseBool(r.URL.Query().Get("explain")); explain {
		ranked, err := h.recommendService.Rank(childID, limit)
		if err != nil {
			respondWithServiceError(w, "Error ranking activities", err)
			return
		}
		respondJSON(w, http.StatusOK, ranked)
		return
	}

	activities, err := h.recommendService.Recommend(childID, limit)
	if err != nil {
		respondWithServiceError(w, "Error getting recommendations", err)
		return
	}
	respondJSON(w, http.StatusOK, activities)
}

// pathID parses a numeric path value. A malformed id cannot name an
// existing record, so it is answered with notFound.
func pathID(w http.ResponseWriter, r *http.Request, name string, notFound error) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		respondWithServiceError(w, "", notFound)
		return 0, false
	}
	return id, true
}
