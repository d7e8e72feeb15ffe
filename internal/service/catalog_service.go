package service

import (
	"fmt"

	"calmpath/internal/models"
	"calmpath/internal/repository"
)

// CatalogService serves read-only activity and child profile lookups
type CatalogService struct {
	catalog  *repository.ActivityCatalog
	children repository.ChildRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalog *repository.ActivityCatalog, children repository.ChildRepository) *CatalogService {
	return &CatalogService{catalog: catalog, children: children}
}

// Activities lists the catalog, optionally narrowed to one category
func (s *CatalogService) Activities(category string) []models.Activity {
	if category == "" {
		return s.catalog.List()
	}
	return s.catalog.ListByCategory(category)
}

// Activity returns a single activity
func (s *CatalogService) Activity(id int64) (*models.Activity, error) {
	activity := s.catalog.GetByID(id)
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// Categories returns the distinct categories in catalog order
func (s *CatalogService) Categories() []string {
	return s.catalog.Categories()
}

// Children lists every child profile
func (s *CatalogService) Children() ([]*models.ChildProfile, error) {
	children, err := s.children.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	if children == nil {
		children = []*models.ChildProfile{}
	}
	return children, nil
}

// Child returns a single child profile
func (s *CatalogService) Child(id int64) (*models.ChildProfile, error) {
	child, err := s.children.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	return child, nil
}
