package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChildProfileCloneIsDeep(t *testing.T) {
	original := &ChildProfile{
		ID:            1,
		Needs:         map[string]string{"sensory": LevelHigh},
		Preferences:   []string{"visual"},
		Interests:     []string{"music"},
		AutismDetails: AutismDetails{Severity: 3, SpecificNeeds: []string{"sensory"}},
	}
	original.EmotionHistory.Append(record(1))

	clone := original.Clone()
	clone.Needs["sensory"] = LevelLow
	clone.Preferences[0] = "music"
	clone.Interests = append(clone.Interests, "art")
	clone.AutismDetails.SpecificNeeds[0] = "routine"
	clone.EmotionHistory.Append(record(2))

	assert.Equal(t, LevelHigh, original.Needs["sensory"])
	assert.Equal(t, []string{"visual"}, original.Preferences)
	assert.Equal(t, []string{"music"}, original.Interests)
	assert.Equal(t, []string{"sensory"}, original.AutismDetails.SpecificNeeds)
	assert.Equal(t, 1, original.EmotionHistory.Len())
	assert.Equal(t, 2, clone.EmotionHistory.Len())
}

func TestChildProfileCloneNil(t *testing.T) {
	var child *ChildProfile
	assert.Nil(t, child.Clone())
}
