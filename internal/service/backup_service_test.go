package service

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"calmpath/internal/models"
	"calmpath/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupRoundTrip(t *testing.T) {
	children := repository.NewMemoryChildRepository(repository.DefaultChildren()...)
	outcomes := repository.NewMemoryOutcomeRepository()
	catalog := repository.NewDefaultActivityCatalog()

	emotions := NewEmotionService(children, nil)
	_, err := emotions.ApplyManualEmotion(1, "calm", nil)
	require.NoError(t, err)
	require.NoError(t, outcomes.Create(&models.Outcome{ChildID: 1, ActivityID: 3, Engagement: 5, Stress: 1, Success: 5}))

	src := NewBackupService(children, outcomes, catalog, "memory")
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, src.Export(path))

	restoredChildren := repository.NewMemoryChildRepository()
	restoredOutcomes := repository.NewMemoryOutcomeRepository()
	dst := NewBackupService(restoredChildren, restoredOutcomes, catalog, "memory")

	summary, err := dst.Import(path)
	require.NoError(t, err)
	assert.Equal(t, &ImportSummary{ChildrenCreated: 3, OutcomesCreated: 1}, summary)

	alex, err := restoredChildren.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "calm", alex.CurrentEmotion)
	assert.Equal(t, 1, alex.EmotionHistory.Len())

	again, err := dst.Import(path)
	require.NoError(t, err)
	assert.Equal(t, &ImportSummary{ChildrenUpdated: 3, OutcomesSkipped: 1}, again)
	alex, _ = restoredChildren.GetByID(1)
	assert.Equal(t, 1, alex.EmotionHistory.Len(), "re-import keeps stored history")
}

func TestBackupSnapshotIncludesCatalog(t *testing.T) {
	svc := NewBackupService(repository.NewMemoryChildRepository(), repository.NewMemoryOutcomeRepository(), repository.NewDefaultActivityCatalog(), "sqlite")

	backup, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, BackupVersion, backup.Version)
	assert.Equal(t, "sqlite", backup.DatabaseType)
	assert.Len(t, backup.Activities, 15)
	assert.Empty(t, backup.Children)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	svc := NewBackupService(repository.NewMemoryChildRepository(), repository.NewMemoryOutcomeRepository(), repository.NewDefaultActivityCatalog(), "memory")

	_, err := svc.ImportFromReader(bytes.NewBufferString(`{"version":"9.9"}`))
	assert.ErrorContains(t, err, "unsupported backup version")

	_, err = svc.ImportFromReader(bytes.NewBufferString(`not json`))
	assert.ErrorContains(t, err, "failed to decode backup")
}

func TestImportNormalizesEmotionState(t *testing.T) {
	children := repository.NewMemoryChildRepository(repository.DefaultChildren()...)
	svc := NewBackupService(children, repository.NewMemoryOutcomeRepository(), repository.NewDefaultActivityCatalog(), "memory")

	backup := `{
		"version": "1.0",
		"children": [
			{"id": 1, "name": "Alex", "age": 7, "currentEmotion": "bored"},
			{"id": 9, "name": "Jo", "age": 6, "currentEmotion": "joy", "emotionHistory": [
				{"id": "a", "emotion": "sadness", "confidence": 0.9, "source": "ml_model"},
				{"id": "b", "emotion": "bored", "confidence": 0.8, "source": "ml_model"},
				{"id": "c", "emotion": "UNCERTAIN", "confidence": 0.3, "source": "ml_model"}
			]},
			{"id": 10, "name": "Max", "age": 8, "currentEmotion": "uncertain"},
			{"id": 11, "name": "Kim", "age": 8}
		]
	}`

	summary, err := svc.ImportFromReader(strings.NewReader(backup))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ChildrenUpdated)
	assert.Equal(t, 3, summary.ChildrenCreated)

	alex, err := children.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "neutral", alex.CurrentEmotion, "existing child keeps stored emotion")

	jo, err := children.GetByID(9)
	require.NoError(t, err)
	assert.Equal(t, "happy", jo.CurrentEmotion)
	records := jo.EmotionHistory.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "sad", records[0].Emotion)
	assert.Equal(t, "uncertain", records[1].Emotion)
	assert.Equal(t, "bored", records[1].OriginalLabel)
	assert.Equal(t, "uncertain", records[2].Emotion)

	for _, id := range []int64{10, 11} {
		child, err := children.GetByID(id)
		require.NoError(t, err)
		assert.Equal(t, "neutral", child.CurrentEmotion, "child %d", id)
	}

	for _, child := range mustList(t, children) {
		assert.Contains(t, []string{"happy", "sad", "anxious", "calm", "excited", "frustrated", "neutral"}, child.CurrentEmotion)
	}
}

func mustList(t *testing.T, repo repository.ChildRepository) []*models.ChildProfile {
	t.Helper()
	children, err := repo.List()
	require.NoError(t, err)
	return children
}
