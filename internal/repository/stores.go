package repository

import (
	"calmpath/internal/config"
	"calmpath/internal/database"
)

// Stores bundles the mutable repositories behind one backend
type Stores struct {
	Children   ChildRepository
	Outcomes   OutcomeRepository
	Caregivers CaregiverRepository
	db         *database.DB
}

// Open selects the backend named by cfg.DatabaseType. "memory" keeps
// everything in process; anything else goes through database.InitializeWithConfig.
func Open(cfg *config.Config) (*Stores, error) {
	if database.IsMemory(cfg) {
		return &Stores{
			Children:   NewMemoryChildRepository(),
			Outcomes:   NewMemoryOutcomeRepository(),
			Caregivers: NewMemoryCaregiverRepository(),
		}, nil
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Children:   NewSQLChildRepository(db),
		Outcomes:   NewSQLOutcomeRepository(db),
		Caregivers: NewSQLCaregiverRepository(db),
		db:         db,
	}, nil
}

// Close releases the database connection, if any
func (s *Stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
