package repository

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"calmpath/internal/database"
	"calmpath/internal/models"
)

// OutcomeRepository stores activity outcome ratings
type OutcomeRepository interface {
	Create(outcome *models.Outcome) error
	GetByID(id int64) (*models.Outcome, error)
	List(filter models.OutcomeFilter) ([]models.Outcome, error)
}

// SQLOutcomeRepository handles outcome database operations
type SQLOutcomeRepository struct {
	db *database.DB
}

// NewSQLOutcomeRepository creates a new outcome repository
func NewSQLOutcomeRepository(db *database.DB) *SQLOutcomeRepository {
	return &SQLOutcomeRepository{db: db}
}

// Create records an outcome and sets its ID
func (r *SQLOutcomeRepository) Create(outcome *models.Outcome) error {
	query := `
		INSERT INTO outcomes (child_id, activity_id, caregiver_id, engagement, stress, success, notes, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		outcome.ChildID,
		outcome.ActivityID,
		outcome.CaregiverID,
		outcome.Engagement,
		outcome.Stress,
		outcome.Success,
		outcome.Notes,
		outcome.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outcome: %w", err)
	}
	outcome.ID = id
	return nil
}

const outcomeColumns = "id, child_id, activity_id, caregiver_id, engagement, stress, success, notes, completed_at"

func scanOutcome(row rowScanner) (models.Outcome, error) {
	var o models.Outcome
	err := row.Scan(
		&o.ID,
		&o.ChildID,
		&o.ActivityID,
		&o.CaregiverID,
		&o.Engagement,
		&o.Stress,
		&o.Success,
		&o.Notes,
		&o.CompletedAt,
	)
	return o, err
}

// GetByID retrieves an outcome by ID
func (r *SQLOutcomeRepository) GetByID(id int64) (*models.Outcome, error) {
	o, err := scanOutcome(r.db.QueryRow("SELECT "+outcomeColumns+" FROM outcomes WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome: %w", err)
	}
	return &o, nil
}

// List returns outcomes matching filter, newest first
func (r *SQLOutcomeRepository) List(filter models.OutcomeFilter) ([]models.Outcome, error) {
	var where []string
	var args []interface{}
	if filter.ChildID != 0 {
		where = append(where, "child_id = ?")
		args = append(args, filter.ChildID)
	}
	if filter.ActivityID != 0 {
		where = append(where, "activity_id = ?")
		args = append(args, filter.ActivityID)
	}

	query := "SELECT " + outcomeColumns + " FROM outcomes"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY completed_at DESC, id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []models.Outcome{}
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// MemoryOutcomeRepository is the in-process OutcomeRepository
type MemoryOutcomeRepository struct {
	mu       sync.RWMutex
	outcomes []models.Outcome
}

// NewMemoryOutcomeRepository creates an empty in-memory outcome store
func NewMemoryOutcomeRepository() *MemoryOutcomeRepository {
	return &MemoryOutcomeRepository{}
}

func (r *MemoryOutcomeRepository) Create(outcome *models.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	outcome.ID = int64(len(r.outcomes) + 1)
	r.outcomes = append(r.outcomes, *outcome)
	return nil
}

func (r *MemoryOutcomeRepository) GetByID(id int64) (*models.Outcome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.outcomes {
		if o.ID == id {
			found := o
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryOutcomeRepository) List(filter models.OutcomeFilter) ([]models.Outcome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Outcome{}
	for _, o := range r.outcomes {
		if filter.ChildID != 0 && o.ChildID != filter.ChildID {
			continue
		}
		if filter.ActivityID != 0 && o.ActivityID != filter.ActivityID {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.After(out[j].CompletedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
