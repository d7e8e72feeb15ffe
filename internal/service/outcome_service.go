package service

import (
	"fmt"
	"strings"
	"time"

	"calmpath/internal/logging"
	"calmpath/internal/models"
	"calmpath/internal/repository"
	"calmpath/internal/validation"
)

// OutcomeInput is a caregiver's report on a completed activity
type OutcomeInput struct {
	ChildID    int64  `json:"childId" validate:"required"`
	ActivityID int64  `json:"activityId" validate:"required"`
	Engagement int    `json:"engagement" validate:"gte=1,lte=5"`
	Stress     int    `json:"stress" validate:"gte=1,lte=5"`
	Success    int    `json:"success" validate:"gte=1,lte=5"`
	Notes      string `json:"notes" validate:"max=2000"`
}

// OutcomeService records how children respond to activities
type OutcomeService struct {
	outcomes repository.OutcomeRepository
	children repository.ChildRepository
	catalog  *repository.ActivityCatalog
	now      func() time.Time
}

// NewOutcomeService creates a new outcome service
func NewOutcomeService(outcomes repository.OutcomeRepository, children repository.ChildRepository, catalog *repository.ActivityCatalog) *OutcomeService {
	return &OutcomeService{
		outcomes: outcomes,
		children: children,
		catalog:  catalog,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Record validates and stores an outcome reported by caregiverID
func (s *OutcomeService) Record(caregiverID int64, in OutcomeInput) (*models.Outcome, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}

	child, err := s.children.GetByID(in.ChildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	if s.catalog.GetByID(in.ActivityID) == nil {
		return nil, ErrActivityNotFound
	}

	outcome := &models.Outcome{
		ChildID:     in.ChildID,
		ActivityID:  in.ActivityID,
		CaregiverID: caregiverID,
		Engagement:  in.Engagement,
		Stress:      in.Stress,
		Success:     in.Success,
		Notes:       strings.TrimSpace(in.Notes),
		CompletedAt: s.now(),
	}
	if err := s.outcomes.Create(outcome); err != nil {
		return nil, err
	}

	logging.Info().
		Int64("outcome_id", outcome.ID).
		Int64("child_id", outcome.ChildID).
		Int64("activity_id", outcome.ActivityID).
		Msg("activity outcome recorded")
	return outcome, nil
}

// Get returns a single outcome
func (s *OutcomeService) Get(id int64) (*models.Outcome, error) {
	outcome, err := s.outcomes.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome: %w", err)
	}
	if outcome == nil {
		return nil, ErrOutcomeNotFound
	}
	return outcome, nil
}

// List returns outcomes matching filter, newest first
func (s *OutcomeService) List(filter models.OutcomeFilter) ([]models.Outcome, error) {
	outcomes, err := s.outcomes.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	if outcomes == nil {
		outcomes = []models.Outcome{}
	}
	return outcomes, nil
}
