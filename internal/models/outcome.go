package models

import "time"

// Outcome records how a child responded to an activity. Ratings are 1..5.
type Outcome struct {
	ID          int64     `json:"id"`
	ChildID     int64     `json:"childId"`
	ActivityID  int64     `json:"activityId"`
	CaregiverID int64     `json:"caregiverId"`
	Engagement  int       `json:"engagement"`
	Stress      int       `json:"stress"`
	Success     int       `json:"success"`
	Notes       string    `json:"notes"`
	CompletedAt time.Time `json:"completedAt"`
}

// OutcomeFilter narrows an outcome listing. Zero fields are ignored.
type OutcomeFilter struct {
	ChildID    int64
	ActivityID int64
}
