package service

import (
	"fmt"

	"calmpath/internal/logging"
	"calmpath/internal/models"
	"calmpath/internal/repository"
)

// SeedService loads the built-in child profiles into an empty store
type SeedService struct {
	children repository.ChildRepository
}

// NewSeedService creates a new seed service
func NewSeedService(children repository.ChildRepository) *SeedService {
	return &SeedService{children: children}
}

// SeedChildren inserts profiles when the store has none and reports how
// many were added
func (s *SeedService) SeedChildren(profiles []*models.ChildProfile) (int, error) {
	count, err := s.children.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count children: %w", err)
	}
	if count > 0 {
		logging.Debug().Int("existing", count).Msg("child profiles already present, skipping seed")
		return 0, nil
	}

	for _, child := range profiles {
		if err := s.children.Create(child); err != nil {
			return 0, fmt.Errorf("failed to seed child %s: %w", child.Name, err)
		}
	}
	logging.Info().Int("count", len(profiles)).Msg("seeded child profiles")
	return len(profiles), nil
}
