package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"calmpath/internal/database"
	"calmpath/internal/models"
)

// CaregiverRepository stores caregiver accounts. Lookups of unknown
// accounts return nil, nil.
type CaregiverRepository interface {
	Create(username, email, name, passwordHash string) (*models.Caregiver, error)
	GetByID(id int64) (*models.Caregiver, error)
	GetByEmail(email string) (*models.Caregiver, error)
	GetByUsername(username string) (*models.Caregiver, error)
}

// SQLCaregiverRepository handles database operations for caregivers
type SQLCaregiverRepository struct {
	db *database.DB
}

// NewSQLCaregiverRepository creates a new caregiver repository
func NewSQLCaregiverRepository(db *database.DB) *SQLCaregiverRepository {
	return &SQLCaregiverRepository{db: db}
}

// Create inserts a new caregiver
func (r *SQLCaregiverRepository) Create(username, email, name, passwordHash string) (*models.Caregiver, error) {
	now := time.Now()
	query := `
		INSERT INTO caregivers (username, email, name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, username, email, name, passwordHash, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create caregiver: %w", err)
	}

	return &models.Caregiver{
		ID:           id,
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (r *SQLCaregiverRepository) getBy(column string, value interface{}) (*models.Caregiver, error) {
	query := `
		SELECT id, username, email, name, password_hash, created_at, updated_at
		FROM caregivers
		WHERE ` + column + ` = ?
	`
	c := &models.Caregiver{}
	err := r.db.QueryRow(query, value).Scan(
		&c.ID,
		&c.Username,
		&c.Email,
		&c.Name,
		&c.PasswordHash,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get caregiver: %w", err)
	}
	return c, nil
}

// GetByID retrieves a caregiver by ID
func (r *SQLCaregiverRepository) GetByID(id int64) (*models.Caregiver, error) {
	return r.getBy("id", id)
}

// GetByEmail retrieves a caregiver by email address
func (r *SQLCaregiverRepository) GetByEmail(email string) (*models.Caregiver, error) {
	return r.getBy("email", email)
}

// GetByUsername retrieves a caregiver by username
func (r *SQLCaregiverRepository) GetByUsername(username string) (*models.Caregiver, error) {
	return r.getBy("username", username)
}

// MemoryCaregiverRepository is the in-process CaregiverRepository
type MemoryCaregiverRepository struct {
	mu         sync.RWMutex
	caregivers []models.Caregiver
}

// NewMemoryCaregiverRepository creates an empty in-memory caregiver store
func NewMemoryCaregiverRepository() *MemoryCaregiverRepository {
	return &MemoryCaregiverRepository{}
}

func (r *MemoryCaregiverRepository) Create(username, email, name, passwordHash string) (*models.Caregiver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.caregivers {
		if strings.EqualFold(c.Username, username) || strings.EqualFold(c.Email, email) {
			return nil, fmt.Errorf("failed to create caregiver: duplicate username or email")
		}
	}
	now := time.Now()
	c := models.Caregiver{
		ID:           int64(len(r.caregivers) + 1),
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.caregivers = append(r.caregivers, c)
	return &c, nil
}

func (r *MemoryCaregiverRepository) find(match func(models.Caregiver) bool) (*models.Caregiver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.caregivers {
		if match(c) {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryCaregiverRepository) GetByID(id int64) (*models.Caregiver, error) {
	return r.find(func(c models.Caregiver) bool { return c.ID == id })
}

func (r *MemoryCaregiverRepository) GetByEmail(email string) (*models.Caregiver, error) {
	return r.find(func(c models.Caregiver) bool { return c.Email == email })
}

func (r *MemoryCaregiverRepository) GetByUsername(username string) (*models.Caregiver, error) {
	return r.find(func(c models.Caregiver) bool { return c.Username == username })
}
