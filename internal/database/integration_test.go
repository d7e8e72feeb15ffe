package database

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Initialize(filepath.Join(t.TempDir(), "calmpath_test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDatabaseIntegration checks the migrated schema
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	for _, table := range []string{"children", "emotion_history", "caregivers", "outcomes", "migrations"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// A second run must be a no-op
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("re-running migrations: %v", err)
	}
	var applied int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&applied); err != nil {
		t.Fatal(err)
	}
	if applied != 1 {
		t.Errorf("Expected 1 recorded migration, got %d", applied)
	}
}

// TestDatabaseTransactions checks commit and rollback through WithTx
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	err := db.WithTx(func(tx *Tx) error {
		_, err := tx.ExecReturningID("INSERT INTO caregivers (username, email, name, password_hash) VALUES (?, ?, ?, ?)",
			"robin", "robin@example.com", "Robin", "hash")
		return err
	})
	if err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	err = db.WithTx(func(tx *Tx) error {
		if _, err := tx.Exec("INSERT INTO caregivers (username, email, name, password_hash) VALUES (?, ?, ?, ?)",
			"kai", "kai@example.com", "Kai", "hash"); err != nil {
			return err
		}
		// duplicate username forces a rollback
		_, err := tx.Exec("INSERT INTO caregivers (username, email, name, password_hash) VALUES (?, ?, ?, ?)",
			"robin", "other@example.com", "Robin", "hash")
		return err
	})
	if err == nil {
		t.Fatal("expected unique constraint violation")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM caregivers").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 caregiver after rollback, got %d", count)
	}
}

// TestTrimHistoryQuery keeps only the newest rows for the child
func TestTrimHistoryQuery(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	if _, err := db.Exec("INSERT INTO children (id, name) VALUES (1, 'Alex'), (2, 'Sam')"); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	for i := 0; i < 8; i++ {
		for _, child := range []int64{1, 2} {
			_, err := db.Exec("INSERT INTO emotion_history (record_id, child_id, emotion, confidence, source, recorded_at) VALUES (?, ?, ?, ?, ?, ?)",
				fmt.Sprintf("rec-%d-%d", child, i), child, "calm", 0.9, "manual", now)
			if err != nil {
				t.Fatal(err)
			}
		}
	}

	if _, err := db.Exec(db.Dialect.TrimHistoryQuery(), 1, 1, 3); err != nil {
		t.Fatalf("trim failed: %v", err)
	}

	var kept, other int
	db.QueryRow("SELECT COUNT(*) FROM emotion_history WHERE child_id = 1").Scan(&kept)
	db.QueryRow("SELECT COUNT(*) FROM emotion_history WHERE child_id = 2").Scan(&other)
	if kept != 3 || other != 8 {
		t.Errorf("kept=%d other=%d, want 3 and 8", kept, other)
	}
}

// TestConcurrentAccess runs parallel reads against one database
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "INSERT INTO children (id, name, current_emotion) VALUES (?, ?, ?)", 7, "Jordan", "calm"); err != nil {
		t.Fatalf("Failed to create test child: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var current string
			if err := db.QueryRow("SELECT current_emotion FROM children WHERE id = ?", 7).Scan(&current); err != nil {
				t.Errorf("Concurrent read failed: %v", err)
				return
			}
			if current != "calm" {
				t.Errorf("Expected current_emotion 'calm', got '%s'", current)
			}
		}()
	}
	wg.Wait()
}
