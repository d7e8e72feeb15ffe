package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"calmpath/internal/classifier"
	"calmpath/internal/logging"
	"calmpath/internal/service"
)

// HealthChecker probes the emotion classifier
type HealthChecker interface {
	Health(ctx context.Context) (*classifier.HealthStatus, error)
}

// EmotionHandler handles emotion updates and classifier requests
type EmotionHandler struct {
	emotionService *service.EmotionService
	health         HealthChecker
	uploadMaxSize  int64
}

// NewEmotionHandler creates a new emotion handler
func NewEmotionHandler(emotionService *service.EmotionService, health HealthChecker, uploadMaxSize int64) *EmotionHandler {
	return &EmotionHandler{
		emotionService: emotionService,
		health:         health,
		uploadMaxSize:  uploadMaxSize,
	}
}

type setEmotionRequest struct {
	Emotion    string   `json:"emotion"`
	Confidence *float64 `json:"confidence" validate:"omitempty,gte=0,lte=1"`
}

type predictionRequest struct {
	Emotion        string             `json:"emotion" validate:"required"`
	Confidence     float64            `json:"confidence" validate:"gte=0,lte=1"`
	AllPredictions map[string]float64 `json:"allPredictions"`
}

// SetEmotion records a caregiver's manual observation
func (h *EmotionHandler) SetEmotion(w http.ResponseWriter, r *http.Request) {
	childID, ok := pathID(w, r, "id", service.ErrChildNotFound)
	if !ok {
		return
	}

	var req setEmotionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	child, err := h.emotionService.ApplyManualEmotion(childID, req.Emotion, req.Confidence)
	if err != nil {
		respondWithServiceError(w, "Error updating emotion", err)
		return
	}
	respondJSON(w, http.StatusOK, child)
}

// ApplyPrediction gates a prediction the caller already obtained
func (h *EmotionHandler) ApplyPrediction(w http.ResponseWriter, r *http.Request) {
	childID, ok := pathID(w, r, "id", service.ErrChildNotFound)
	if !ok {
		return
	}

	var req predictionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.emotionService.ApplyPrediction(childID, classifier.Prediction{
		Emotion:        req.Emotion,
		Confidence:     req.Confidence,
		AllPredictions: req.AllPredictions,
	})
	if err != nil {
		respondWithServiceError(w, "Error applying prediction", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Recognize sends an uploaded photo to the classifier and gates the result
func (h *EmotionHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	childID, ok := pathID(w, r, "id", service.ErrChildNotFound)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxSize+1<<16)
	if err := r.ParseMultipartForm(h.uploadMaxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "Image is too large", "", nil)
			return
		}
		respondWithError(w, http.StatusBadRequest, "Expected a multipart form with an image", "", nil)
		return
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		file, header, err = r.FormFile("file")
	}
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "No image file provided", "", nil)
		return
	}
	defer file.Close()

	if header.Size > h.uploadMaxSize {
		respondWithError(w, http.StatusRequestEntityTooLarge, "Image is too large", "", nil)
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read image", "Error reading upload", err)
		return
	}

	result, err := h.emotionService.RecognizeImage(r.Context(), childID, image, header.Filename)
	if err != nil {
		respondWithServiceError(w, "Error recognizing emotion", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// History returns a child's emotion records, oldest first
func (h *EmotionHandler) History(w http.ResponseWriter, r *http.Request) {
	childID, ok := pathID(w, r, "id", service.ErrChildNotFound)
	if !ok {
		return
	}

	records, err := h.emotionService.History(childID)
	if err != nil {
		respondWithServiceError(w, "Error getting emotion history", err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

type mlHealthResponse struct {
	Healthy bool                   `json:"healthy"`
	URL     string                 `json:"url,omitempty"`
	Detail  map[string]interface{} `json:"detail,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Hint    string                 `json:"hint,omitempty"`
	Tried   []string               `json:"tried,omitempty"`
}

// MLHealth reports whether the classifier is reachable. An unreachable
// classifier is a normal answer here, not a server error.
func (h *EmotionHandler) MLHealth(w http.ResponseWriter, r *http.Request) {
	if h.health == nil {
		respondJSON(w, http.StatusOK, mlHealthResponse{Error: "emotion classifier is not configured", Hint: classifier.DefaultHint})
		return
	}

	status, err := h.health.Health(r.Context())
	resp := mlHealthResponse{}
	if status != nil {
		resp.Healthy = status.Healthy
		resp.URL = status.URL
		resp.Detail = status.Detail
	}
	if err != nil {
		resp.Healthy = false
		resp.Error = err.Error()
		var upstream *classifier.UpstreamError
		if errors.As(err, &upstream) {
			resp.Hint = upstream.Hint
			resp.Tried = upstream.Tried
		}
		logging.Warn().Err(err).Msg("ML health check failed")
	}
	respondJSON(w, http.StatusOK, resp)
}
