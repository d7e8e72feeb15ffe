package recommend

import "calmpath/internal/models"

// ChildLevel maps a child's social or financial status to 0..2.
// Unknown or empty values count as medium (1).
func ChildLevel(status string) int {
	switch status {
	case models.LevelLow:
		return 0
	case models.LevelMedium:
		return 1
	case models.LevelHigh:
		return 2
	default:
		return 1
	}
}

// SocialRequirementLevel maps an activity's social requirement to 0..3.
// Unknown or empty values count as none (0).
func SocialRequirementLevel(requirement string) int {
	switch requirement {
	case models.LevelNone:
		return 0
	case models.LevelLow:
		return 1
	case models.LevelMedium:
		return 2
	case models.LevelHigh:
		return 3
	default:
		return 0
	}
}

// CostLevel maps an activity's cost to 0..3.
// Unknown or empty values count as free (0).
func CostLevel(cost string) int {
	switch cost {
	case models.LevelFree:
		return 0
	case models.LevelLow:
		return 1
	case models.LevelMedium:
		return 2
	case models.LevelHigh:
		return 3
	default:
		return 0
	}
}

// NeedBonus is the legacy category-need bonus for a need level
func NeedBonus(level string) float64 {
	switch level {
	case models.LevelHigh:
		return 10
	case models.LevelMedium:
		return 5
	default:
		return 0
	}
}
