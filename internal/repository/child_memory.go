package repository

import (
	"sort"
	"sync"
	"time"

	"calmpath/internal/models"
)

// MemoryChildRepository keeps profiles in process memory. Every read and
// write goes through deep copies so callers never share state.
type MemoryChildRepository struct {
	mu       sync.RWMutex
	children map[int64]*models.ChildProfile
	nextID   int64
}

// NewMemoryChildRepository creates a repository holding copies of children
func NewMemoryChildRepository(children ...*models.ChildProfile) *MemoryChildRepository {
	r := &MemoryChildRepository{children: make(map[int64]*models.ChildProfile), nextID: 1}
	for _, c := range children {
		r.Create(c)
	}
	return r
}

// GetByID returns a copy of the child, or nil when absent
func (r *MemoryChildRepository) GetByID(id int64) (*models.ChildProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.children[id].Clone(), nil
}

// List returns copies of every child ordered by id
func (r *MemoryChildRepository) List() ([]*models.ChildProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.ChildProfile, 0, len(r.children))
	for _, c := range r.children {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryChildRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.children), nil
}

// Create stores a copy of child. A zero id is assigned the next free id.
func (r *MemoryChildRepository) Create(child *models.ChildProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := child.Clone()
	if stored.ID == 0 {
		stored.ID = r.nextID
		child.ID = stored.ID
	}
	if stored.ID >= r.nextID {
		r.nextID = stored.ID + 1
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now()
	}
	r.children[stored.ID] = stored
	return nil
}

// Update replaces the stored profile fields. The stored current emotion and
// history are kept; use AppendEmotion to change them. Unknown ids are ignored.
func (r *MemoryChildRepository) Update(child *models.ChildProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.children[child.ID]
	if !ok {
		return nil
	}
	stored := child.Clone()
	stored.CurrentEmotion = existing.CurrentEmotion
	stored.EmotionHistory = existing.EmotionHistory
	stored.UpdatedAt = time.Now()
	r.children[child.ID] = stored
	return nil
}

func (r *MemoryChildRepository) AppendEmotion(childID int64, record models.EmotionRecord, applyCurrent bool) (*models.ChildProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	child, ok := r.children[childID]
	if !ok {
		return nil, nil
	}
	child.EmotionHistory.Append(record)
	if applyCurrent {
		child.CurrentEmotion = record.Emotion
	}
	child.UpdatedAt = time.Now()
	return child.Clone(), nil
}
