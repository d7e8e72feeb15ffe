package models

import "time"

// AutismDetails describes a child's diagnosis profile
type AutismDetails struct {
	Severity      int      `json:"severity"` // 1..5
	Type          string   `json:"type"`
	SpecificNeeds []string `json:"specificNeeds"`
}

// ChildProfile represents a child's mutable state in the system
type ChildProfile struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Age             int               `json:"age"`
	Needs           map[string]string `json:"needs"`
	Preferences     []string          `json:"preferences"`
	Strengths       []string          `json:"strengths"`
	Challenges      []string          `json:"challenges"`
	SocialStatus    string            `json:"socialStatus"`
	FinancialStatus string            `json:"financialStatus"`
	AutismDetails   AutismDetails     `json:"autismDetails"`
	Interests       []string          `json:"interests"`
	CurrentEmotion  string            `json:"currentEmotion"`
	EmotionHistory  EmotionHistory    `json:"emotionHistory"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// Clone returns a deep copy so callers can mutate it without touching shared state
func (c *ChildProfile) Clone() *ChildProfile {
	if c == nil {
		return nil
	}
	out := *c
	if c.Needs != nil {
		out.Needs = make(map[string]string, len(c.Needs))
		for k, v := range c.Needs {
			out.Needs[k] = v
		}
	}
	out.Preferences = cloneStrings(c.Preferences)
	out.Strengths = cloneStrings(c.Strengths)
	out.Challenges = cloneStrings(c.Challenges)
	out.Interests = cloneStrings(c.Interests)
	out.AutismDetails.SpecificNeeds = cloneStrings(c.AutismDetails.SpecificNeeds)
	out.EmotionHistory = c.EmotionHistory.Clone()
	return &out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
