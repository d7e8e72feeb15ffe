package models

// Activity categories
const (
	CategorySocial     = "social"
	CategoryBehavioral = "behavioral"
	CategoryEmotional  = "emotional"
)

// Activity difficulty levels
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Shared ordinal level names. Cost adds "free", social requirement adds "none".
const (
	LevelNone   = "none"
	LevelFree   = "free"
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Activity is an immutable catalog entry
type Activity struct {
	ID                int64              `json:"id"`
	Title             string             `json:"title"`
	Category          string             `json:"category"`
	Description       string             `json:"description"`
	Duration          string             `json:"duration"`
	Difficulty        string             `json:"difficulty"`
	Materials         []string           `json:"materials"`
	Benefits          []string           `json:"benefits"`
	AgeRange          string             `json:"ageRange"`
	Icon              string             `json:"icon"`
	CostLevel         string             `json:"costLevel"`
	SocialRequirement string             `json:"socialRequirement"`
	EmotionMapping    map[string]float64 `json:"emotionMapping"`
	InterestTags      []string           `json:"interestTags"`
}
