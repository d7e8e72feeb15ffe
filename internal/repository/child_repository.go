package repository

import (
	"fmt"

	"calmpath/internal/models"

	"github.com/goccy/go-json"
)

// ChildRepository stores child profiles and their emotion history.
// Lookups of an unknown id return nil, nil.
type ChildRepository interface {
	GetByID(id int64) (*models.ChildProfile, error)
	List() ([]*models.ChildProfile, error)
	Count() (int, error)
	Create(child *models.ChildProfile) error
	Update(child *models.ChildProfile) error

	// AppendEmotion adds record to the child's history, evicting the oldest
	// entry past models.EmotionHistoryCapacity. When applyCurrent is set the
	// child's current emotion becomes record.Emotion in the same step.
	AppendEmotion(childID int64, record models.EmotionRecord, applyCurrent bool) (*models.ChildProfile, error)
}

func encodeJSONColumn(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode column: %w", err)
	}
	return string(data), nil
}

func decodeJSONColumn(raw string, v interface{}) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode column: %w", err)
	}
	return nil
}
