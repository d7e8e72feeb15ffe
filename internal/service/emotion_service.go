package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"calmpath/internal/classifier"
	"calmpath/internal/emotion"
	"calmpath/internal/logging"
	"calmpath/internal/metrics"
	"calmpath/internal/models"
	"calmpath/internal/repository"
	"calmpath/internal/security"

	"github.com/google/uuid"
)

// Predictor returns an emotion prediction for an image
type Predictor interface {
	Predict(ctx context.Context, image []byte, filename string) (*classifier.Prediction, error)
}

// AppliedPrediction describes the prediction that was evaluated
type AppliedPrediction struct {
	Emotion       string  `json:"emotion"`
	OriginalLabel string  `json:"originalLabel"`
	Confidence    float64 `json:"confidence"`
	Margin        float64 `json:"margin"`
}

// PredictionResult is returned for every evaluated prediction, trusted or not
type PredictionResult struct {
	Child      *models.ChildProfile `json:"child"`
	Applied    bool                 `json:"applied"`
	Message    string               `json:"message"`
	Prediction AppliedPrediction    `json:"prediction"`
}

// EmotionService records emotion observations and decides which of them
// change a child's current emotion
type EmotionService struct {
	children  repository.ChildRepository
	predictor Predictor
	locks     *security.KeyedMutex
	now       func() time.Time
	newID     func() string
}

// NewEmotionService creates a new emotion service. predictor may be nil
// when image recognition is not available.
func NewEmotionService(children repository.ChildRepository, predictor Predictor) *EmotionService {
	return &EmotionService{
		children:  children,
		predictor: predictor,
		locks:     security.NewKeyedMutex(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// ApplyPrediction records a classifier prediction in the child's history
// and overwrites the current emotion only when the prediction clears the
// confidence and margin gate and names a canonical emotion.
func (s *EmotionService) ApplyPrediction(childID int64, p classifier.Prediction) (*PredictionResult, error) {
	normalized := emotion.Normalize(p.Emotion)
	margin := emotion.Margin(p.Confidence, p.AllPredictions)
	passes := emotion.Passes(p.Confidence, margin)
	apply := passes && emotion.IsCanonical(normalized)

	record := models.EmotionRecord{
		ID:            s.newID(),
		Emotion:       normalized,
		OriginalLabel: p.Emotion,
		Confidence:    p.Confidence,
		Margin:        &margin,
		Timestamp:     s.now(),
		Source:        models.SourceMLModel,
	}

	child, err := s.append(childID, record, apply)
	if err != nil {
		return nil, err
	}

	metrics.PredictionConfidence.Observe(p.Confidence)
	metrics.RecordEmotionUpdate(models.SourceMLModel, apply)

	logging.Info().
		Int64("child_id", childID).
		Str("emotion", normalized).
		Str("original_label", p.Emotion).
		Float64("confidence", p.Confidence).
		Float64("margin", margin).
		Bool("applied", apply).
		Msg("emotion prediction recorded")

	return &PredictionResult{
		Child:   child,
		Applied: apply,
		Message: predictionMessage(normalized, p.Confidence, margin, passes, apply),
		Prediction: AppliedPrediction{
			Emotion:       normalized,
			OriginalLabel: p.Emotion,
			Confidence:    p.Confidence,
			Margin:        margin,
		},
	}, nil
}

func predictionMessage(label string, confidence, margin float64, passes, applied bool) string {
	switch {
	case applied:
		return fmt.Sprintf("Emotion updated to %s", label)
	case label == emotion.Uncertain:
		return "Classifier was uncertain; current emotion left unchanged"
	case !passes:
		return fmt.Sprintf("Low confidence prediction (%s): confidence %.2f (needs %.2f), margin %.2f (needs %.2f); current emotion left unchanged",
			label, confidence, emotion.MinConfidence, margin, emotion.MinMargin)
	default:
		return fmt.Sprintf("Unrecognized emotion %q; current emotion left unchanged", label)
	}
}

// ApplyManualEmotion sets the child's current emotion from a caregiver's
// observation. A nil confidence records 1.0.
func (s *EmotionService) ApplyManualEmotion(childID int64, label string, confidence *float64) (*models.ChildProfile, error) {
	normalized, err := emotion.ValidateManual(label)
	if err != nil {
		return nil, err
	}

	conf := 1.0
	if confidence != nil {
		conf = *confidence
	}

	record := models.EmotionRecord{
		ID:            s.newID(),
		Emotion:       normalized,
		OriginalLabel: label,
		Confidence:    conf,
		Timestamp:     s.now(),
		Source:        models.SourceManual,
	}

	child, err := s.append(childID, record, true)
	if err != nil {
		return nil, err
	}

	metrics.RecordEmotionUpdate(models.SourceManual, true)
	logging.Info().Int64("child_id", childID).Str("emotion", normalized).Msg("emotion set manually")
	return child, nil
}

// RecognizeImage sends the image to the classifier and applies the result
func (s *EmotionService) RecognizeImage(ctx context.Context, childID int64, image []byte, filename string) (*PredictionResult, error) {
	if s.predictor == nil {
		return nil, &classifier.UpstreamError{
			Status:  http.StatusServiceUnavailable,
			Message: "emotion classifier is not configured",
			Hint:    classifier.DefaultHint,
		}
	}

	// Fail fast before paying for a classifier round trip.
	child, err := s.children.GetByID(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	if child == nil {
		return nil, ErrChildNotFound
	}

	prediction, err := s.predictor.Predict(ctx, image, filename)
	if err != nil {
		return nil, err
	}
	return s.ApplyPrediction(childID, *prediction)
}

// History returns the child's emotion records, oldest first
func (s *EmotionService) History(childID int64) ([]models.EmotionRecord, error) {
	child, err := s.children.GetByID(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	return child.EmotionHistory.Records(), nil
}

func (s *EmotionService) append(childID int64, record models.EmotionRecord, applyCurrent bool) (*models.ChildProfile, error) {
	unlock := s.locks.Lock(childID)
	defer unlock()

	child, err := s.children.AppendEmotion(childID, record, applyCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to record emotion: %w", err)
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	return child, nil
}
