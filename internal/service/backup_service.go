package service

import (
	"fmt"
	"io"
	"os"
	"time"

	"calmpath/internal/emotion"
	"calmpath/internal/logging"
	"calmpath/internal/models"
	"calmpath/internal/repository"

	"github.com/goccy/go-json"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData is the JSON document produced by an export
type BackupData struct {
	Version      string                 `json:"version"`
	ExportedAt   time.Time              `json:"exported_at"`
	DatabaseType string                 `json:"database_type"`
	Activities   []models.Activity      `json:"activities"`
	Children     []*models.ChildProfile `json:"children"`
	Outcomes     []models.Outcome       `json:"outcomes"`
}

// ImportSummary counts what an import changed
type ImportSummary struct {
	ChildrenCreated   int
	ChildrenUpdated   int
	OutcomesCreated   int
	OutcomesSkipped   int
	EmotionsCorrected int
}

// BackupService exports and restores child profiles, their emotion
// history and recorded outcomes
type BackupService struct {
	children     repository.ChildRepository
	outcomes     repository.OutcomeRepository
	catalog      *repository.ActivityCatalog
	databaseType string
}

// NewBackupService creates a new backup service
func NewBackupService(children repository.ChildRepository, outcomes repository.OutcomeRepository, catalog *repository.ActivityCatalog, databaseType string) *BackupService {
	return &BackupService{
		children:     children,
		outcomes:     outcomes,
		catalog:      catalog,
		databaseType: databaseType,
	}
}

// Snapshot collects the current state into a BackupData
func (s *BackupService) Snapshot() (*BackupData, error) {
	children, err := s.children.List()
	if err != nil {
		return nil, fmt.Errorf("failed to export children: %w", err)
	}
	outcomes, err := s.outcomes.List(models.OutcomeFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to export outcomes: %w", err)
	}

	return &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.databaseType,
		Activities:   s.catalog.List(),
		Children:     children,
		Outcomes:     outcomes,
	}, nil
}

// Export writes a backup to outputPath
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return s.ExportToWriter(file)
}

// ExportToWriter writes an indented backup document to w
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup, err := s.Snapshot()
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	logging.Info().
		Int("children", len(backup.Children)).
		Int("outcomes", len(backup.Outcomes)).
		Msg("backup exported")
	return nil
}

// Import restores a backup from inputPath
func (s *BackupService) Import(inputPath string) (*ImportSummary, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader merges a backup into the store. Children that already
// exist get their profile fields replaced and keep their stored emotion
// state; new children are created with the emotion state from the backup
// after it is normalized. Outcomes are appended unless one with the same
// id is already stored.
func (s *BackupService) ImportFromReader(reader io.Reader) (*ImportSummary, error) {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	summary := &ImportSummary{}
	for _, child := range backup.Children {
		if child == nil || child.ID == 0 {
			continue
		}
		summary.EmotionsCorrected += normalizeEmotionState(child)
		existing, err := s.children.GetByID(child.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check child %d: %w", child.ID, err)
		}
		if existing != nil {
			if err := s.children.Update(child); err != nil {
				return nil, fmt.Errorf("failed to update child %d: %w", child.ID, err)
			}
			summary.ChildrenUpdated++
			continue
		}
		if err := s.children.Create(child); err != nil {
			return nil, fmt.Errorf("failed to create child %d: %w", child.ID, err)
		}
		summary.ChildrenCreated++
	}

	for i := range backup.Outcomes {
		outcome := backup.Outcomes[i]
		existing, err := s.outcomes.GetByID(outcome.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check outcome %d: %w", outcome.ID, err)
		}
		if existing != nil {
			summary.OutcomesSkipped++
			continue
		}
		if err := s.outcomes.Create(&outcome); err != nil {
			return nil, fmt.Errorf("failed to import outcome: %w", err)
		}
		summary.OutcomesCreated++
	}

	logging.Info().
		Str("version", backup.Version).
		Time("exported_at", backup.ExportedAt).
		Int("children_created", summary.ChildrenCreated).
		Int("children_updated", summary.ChildrenUpdated).
		Int("outcomes_created", summary.OutcomesCreated).
		Int("outcomes_skipped", summary.OutcomesSkipped).
		Int("emotions_corrected", summary.EmotionsCorrected).
		Msg("backup imported")
	return summary, nil
}

// normalizeEmotionState brings imported emotion data back into the labels
// the emotion pipeline itself writes. A current emotion that is not
// canonical becomes neutral. History labels that are neither canonical nor
// uncertain are stored as uncertain, with the raw text kept as the original
// label. Returns the number of values changed.
func normalizeEmotionState(child *models.ChildProfile) int {
	changed := 0

	current := emotion.Normalize(child.CurrentEmotion)
	if !emotion.IsCanonical(current) {
		current = emotion.Neutral
	}
	if current != child.CurrentEmotion {
		child.CurrentEmotion = current
		changed++
	}

	records := child.EmotionHistory.Records()
	for i := range records {
		label := emotion.Normalize(records[i].Emotion)
		if !emotion.IsCanonical(label) && label != emotion.Uncertain {
			if records[i].OriginalLabel == "" {
				records[i].OriginalLabel = records[i].Emotion
			}
			label = emotion.Uncertain
		}
		if label != records[i].Emotion {
			records[i].Emotion = label
			changed++
		}
	}
	child.EmotionHistory = models.NewEmotionHistory(records)
	return changed
}
