package service

import (
	"fmt"

	"calmpath/internal/logging"
	"calmpath/internal/metrics"
	"calmpath/internal/models"
	"calmpath/internal/recommend"
	"calmpath/internal/repository"
)

// RecommendationService ranks catalog activities for a child
type RecommendationService struct {
	children repository.ChildRepository
	catalog  *repository.ActivityCatalog
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(children repository.ChildRepository, catalog *repository.ActivityCatalog) *RecommendationService {
	return &RecommendationService{children: children, catalog: catalog}
}

// Recommend returns up to limit activities, best first. An unknown child
// yields an empty list rather than an error.
func (s *RecommendationService) Recommend(childID int64, limit int) ([]models.Activity, error) {
	child, err := s.child(childID)
	if err != nil || child == nil {
		return []models.Activity{}, err
	}
	metrics.Recommendations.Inc()
	return recommend.Recommend(child, s.catalog.List(), limit), nil
}

// Rank is Recommend with each activity's score and factor breakdown
func (s *RecommendationService) Rank(childID int64, limit int) ([]recommend.Scored, error) {
	child, err := s.child(childID)
	if err != nil || child == nil {
		return []recommend.Scored{}, err
	}
	metrics.Recommendations.Inc()
	return recommend.Rank(child, s.catalog.List(), limit), nil
}

func (s *RecommendationService) child(childID int64) (*models.ChildProfile, error) {
	child, err := s.children.GetByID(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	if child == nil {
		logging.Debug().Int64("child_id", childID).Msg("recommendations requested for unknown child")
	}
	return child, nil
}
