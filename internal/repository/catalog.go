package repository

import "calmpath/internal/models"

// ActivityCatalog is the read-only set of therapy activities. It copies
// activities in and out so callers cannot mutate the catalog.
type ActivityCatalog struct {
	activities []models.Activity
	byID       map[int64]int
}

// NewActivityCatalog builds a catalog preserving the given order
func NewActivityCatalog(activities []models.Activity) *ActivityCatalog {
	c := &ActivityCatalog{
		activities: make([]models.Activity, len(activities)),
		byID:       make(map[int64]int, len(activities)),
	}
	for i, a := range activities {
		c.activities[i] = cloneActivity(a)
		c.byID[a.ID] = i
	}
	return c
}

// NewDefaultActivityCatalog returns the built-in catalog
func NewDefaultActivityCatalog() *ActivityCatalog {
	return NewActivityCatalog(DefaultActivities())
}

// GetByID returns the activity, or nil when the id is unknown
func (c *ActivityCatalog) GetByID(id int64) *models.Activity {
	i, ok := c.byID[id]
	if !ok {
		return nil
	}
	a := cloneActivity(c.activities[i])
	return &a
}

// List returns every activity in catalog order
func (c *ActivityCatalog) List() []models.Activity {
	out := make([]models.Activity, len(c.activities))
	for i, a := range c.activities {
		out[i] = cloneActivity(a)
	}
	return out
}

// ListByCategory returns the activities in category, in catalog order
func (c *ActivityCatalog) ListByCategory(category string) []models.Activity {
	out := []models.Activity{}
	for _, a := range c.activities {
		if a.Category == category {
			out = append(out, cloneActivity(a))
		}
	}
	return out
}

// Categories returns the distinct categories in order of first appearance
func (c *ActivityCatalog) Categories() []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, a := range c.activities {
		if !seen[a.Category] {
			seen[a.Category] = true
			out = append(out, a.Category)
		}
	}
	return out
}

// Len returns the number of activities
func (c *ActivityCatalog) Len() int {
	return len(c.activities)
}

func cloneActivity(a models.Activity) models.Activity {
	a.Materials = append([]string(nil), a.Materials...)
	a.Benefits = append([]string(nil), a.Benefits...)
	a.InterestTags = append([]string(nil), a.InterestTags...)
	if a.EmotionMapping != nil {
		m := make(map[string]float64, len(a.EmotionMapping))
		for k, v := range a.EmotionMapping {
			m[k] = v
		}
		a.EmotionMapping = m
	}
	return a
}
