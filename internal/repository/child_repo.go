package repository

import (
	"database/sql"
	"fmt"
	"time"

	"calmpath/internal/database"
	"calmpath/internal/models"
)

const childColumns = `id, name, age, needs, preferences, strengths, challenges, social_status,
	financial_status, autism_severity, autism_type, specific_needs, interests, current_emotion, updated_at`

// SQLChildRepository stores child profiles in the children and
// emotion_history tables
type SQLChildRepository struct {
	db *database.DB
}

// NewSQLChildRepository creates a new SQL-backed child repository
func NewSQLChildRepository(db *database.DB) *SQLChildRepository {
	return &SQLChildRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChild(row rowScanner) (*models.ChildProfile, error) {
	child := &models.ChildProfile{}
	var needs, preferences, strengths, challenges, specificNeeds, interests string
	err := row.Scan(
		&child.ID,
		&child.Name,
		&child.Age,
		&needs,
		&preferences,
		&strengths,
		&challenges,
		&child.SocialStatus,
		&child.FinancialStatus,
		&child.AutismDetails.Severity,
		&child.AutismDetails.Type,
		&specificNeeds,
		&interests,
		&child.CurrentEmotion,
		&child.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	columns := []struct {
		raw  string
		dest interface{}
	}{
		{needs, &child.Needs},
		{preferences, &child.Preferences},
		{strengths, &child.Strengths},
		{challenges, &child.Challenges},
		{specificNeeds, &child.AutismDetails.SpecificNeeds},
		{interests, &child.Interests},
	}
	for _, c := range columns {
		if err := decodeJSONColumn(c.raw, c.dest); err != nil {
			return nil, fmt.Errorf("child %d: %w", child.ID, err)
		}
	}
	return child, nil
}

// GetByID retrieves a child with its emotion history
func (r *SQLChildRepository) GetByID(id int64) (*models.ChildProfile, error) {
	return r.getByID(r.db, id)
}

func (r *SQLChildRepository) getByID(q database.DBTX, id int64) (*models.ChildProfile, error) {
	child, err := scanChild(q.QueryRow("SELECT "+childColumns+" FROM children WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}

	records, err := r.history(q, id)
	if err != nil {
		return nil, err
	}
	child.EmotionHistory = models.NewEmotionHistory(records)
	return child, nil
}

// history returns the newest records for a child, oldest first
func (r *SQLChildRepository) history(q database.DBTX, childID int64) ([]models.EmotionRecord, error) {
	query := `
		SELECT record_id, emotion, original_label, confidence, margin, source, recorded_at
		FROM emotion_history
		WHERE child_id = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := q.Query(query, childID, models.EmotionHistoryCapacity)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion history: %w", err)
	}
	defer rows.Close()

	var records []models.EmotionRecord
	for rows.Next() {
		var rec models.EmotionRecord
		var margin sql.NullFloat64
		if err := rows.Scan(&rec.ID, &rec.Emotion, &rec.OriginalLabel, &rec.Confidence, &margin, &rec.Source, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan emotion record: %w", err)
		}
		if margin.Valid {
			m := margin.Float64
			rec.Margin = &m
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read emotion history: %w", err)
	}

	// newest first from the query
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// List retrieves every child ordered by id, each with its history
func (r *SQLChildRepository) List() ([]*models.ChildProfile, error) {
	rows, err := r.db.Query("SELECT " + childColumns + " FROM children ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}

	var children []*models.ChildProfile
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, child)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read children: %w", err)
	}

	// Rows are closed before loading history so sqlite's pool is not
	// holding a second connection per child.
	for _, child := range children {
		records, err := r.history(r.db, child.ID)
		if err != nil {
			return nil, err
		}
		child.EmotionHistory = models.NewEmotionHistory(records)
	}
	return children, nil
}

// Count returns the number of stored children
func (r *SQLChildRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM children").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count children: %w", err)
	}
	return count, nil
}

type childColumnValues struct {
	needs, preferences, strengths, challenges, specificNeeds, interests string
}

func encodeChildColumns(child *models.ChildProfile) (childColumnValues, error) {
	var v childColumnValues
	var err error
	needs := child.Needs
	if needs == nil {
		needs = map[string]string{}
	}
	if v.needs, err = encodeJSONColumn(needs); err != nil {
		return v, err
	}
	for _, c := range []struct {
		dst *string
		src []string
	}{
		{&v.preferences, child.Preferences},
		{&v.strengths, child.Strengths},
		{&v.challenges, child.Challenges},
		{&v.specificNeeds, child.AutismDetails.SpecificNeeds},
		{&v.interests, child.Interests},
	} {
		src := c.src
		if src == nil {
			src = []string{}
		}
		if *c.dst, err = encodeJSONColumn(src); err != nil {
			return v, err
		}
	}
	return v, nil
}

// Create inserts a child profile and any history it carries. A non-zero id
// is kept as given.
func (r *SQLChildRepository) Create(child *models.ChildProfile) error {
	cols, err := encodeChildColumns(child)
	if err != nil {
		return err
	}
	if child.UpdatedAt.IsZero() {
		child.UpdatedAt = time.Now()
	}
	if child.CurrentEmotion == "" {
		child.CurrentEmotion = "neutral"
	}

	return r.db.WithTx(func(tx *database.Tx) error {
		args := []interface{}{
			child.Name, child.Age, cols.needs, cols.preferences, cols.strengths, cols.challenges,
			child.SocialStatus, child.FinancialStatus, child.AutismDetails.Severity, child.AutismDetails.Type,
			cols.specificNeeds, cols.interests, child.CurrentEmotion, child.UpdatedAt,
		}

		if child.ID != 0 {
			query := `
				INSERT INTO children (id, name, age, needs, preferences, strengths, challenges, social_status,
					financial_status, autism_severity, autism_type, specific_needs, interests, current_emotion, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`
			if _, err := tx.Exec(query, append([]interface{}{child.ID}, args...)...); err != nil {
				return fmt.Errorf("failed to create child: %w", err)
			}
			if resync := tx.GetDialect().ResyncSequenceQuery("children"); resync != "" {
				if _, err := tx.Exec(resync); err != nil {
					return fmt.Errorf("failed to resync child ids: %w", err)
				}
			}
		} else {
			query := `
				INSERT INTO children (name, age, needs, preferences, strengths, challenges, social_status,
					financial_status, autism_severity, autism_type, specific_needs, interests, current_emotion, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`
			id, err := tx.ExecReturningID(query, args...)
			if err != nil {
				return fmt.Errorf("failed to create child: %w", err)
			}
			child.ID = id
		}

		for _, rec := range child.EmotionHistory.Records() {
			if err := insertEmotionRecord(tx, child.ID, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update writes the profile fields. Current emotion and history are only
// changed through AppendEmotion.
func (r *SQLChildRepository) Update(child *models.ChildProfile) error {
	cols, err := encodeChildColumns(child)
	if err != nil {
		return err
	}
	query := `
		UPDATE children SET name = ?, age = ?, needs = ?, preferences = ?, strengths = ?, challenges = ?,
			social_status = ?, financial_status = ?, autism_severity = ?, autism_type = ?, specific_needs = ?,
			interests = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = r.db.Exec(query,
		child.Name, child.Age, cols.needs, cols.preferences, cols.strengths, cols.challenges,
		child.SocialStatus, child.FinancialStatus, child.AutismDetails.Severity, child.AutismDetails.Type,
		cols.specificNeeds, cols.interests, time.Now(), child.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update child: %w", err)
	}
	return nil
}

// AppendEmotion inserts the record, trims the history to capacity and
// optionally sets the current emotion, all in one transaction.
func (r *SQLChildRepository) AppendEmotion(childID int64, record models.EmotionRecord, applyCurrent bool) (*models.ChildProfile, error) {
	var found bool
	err := r.db.WithTx(func(tx *database.Tx) error {
		var exists int
		err := tx.QueryRow("SELECT COUNT(*) FROM children WHERE id = ?", childID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check child: %w", err)
		}
		if exists == 0 {
			return nil
		}
		found = true

		if err := insertEmotionRecord(tx, childID, record); err != nil {
			return err
		}

		if _, err := tx.Exec(tx.GetDialect().TrimHistoryQuery(), childID, childID, models.EmotionHistoryCapacity); err != nil {
			return fmt.Errorf("failed to trim emotion history: %w", err)
		}

		if applyCurrent {
			_, err = tx.Exec("UPDATE children SET current_emotion = ?, updated_at = ? WHERE id = ?", record.Emotion, time.Now(), childID)
		} else {
			_, err = tx.Exec("UPDATE children SET updated_at = ? WHERE id = ?", time.Now(), childID)
		}
		if err != nil {
			return fmt.Errorf("failed to update child emotion: %w", err)
		}
		return nil
	})
	if err != nil || !found {
		return nil, err
	}
	return r.GetByID(childID)
}

func insertEmotionRecord(tx database.DBTX, childID int64, rec models.EmotionRecord) error {
	var margin interface{}
	if rec.Margin != nil {
		margin = *rec.Margin
	}
	query := `
		INSERT INTO emotion_history (record_id, child_id, emotion, original_label, confidence, margin, source, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(query, rec.ID, childID, rec.Emotion, rec.OriginalLabel, rec.Confidence, margin, rec.Source, rec.Timestamp); err != nil {
		return fmt.Errorf("failed to insert emotion record: %w", err)
	}
	return nil
}
