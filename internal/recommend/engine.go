// Package recommend ranks catalog activities for a child with a fixed,
// additive rule-based score.
package recommend

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"calmpath/internal/emotion"
	"calmpath/internal/models"
)

// DefaultLimit is the number of activities returned when no limit is given
const DefaultLimit = 6

// Factor weights
const (
	EmotionWeight        = 15.0
	SocialWeight         = 10.0
	SocialPenaltyPerStep = 3.0
	FinancialWeight      = 12.0
	FinancialPenalty     = 5.0
	SevereEasyBonus      = 8.0
	ModerateBonus        = 5.0
	SpecificNeedBonus    = 7.0
	InterestWeight       = 12.0
	VisualBonus          = 5.0
	AgeBonus             = 3.0
	ChallengeBonus       = 5.0
)

// Breakdown holds each factor's contribution to an activity's score
type Breakdown struct {
	Emotion   float64 `json:"emotion"`
	Social    float64 `json:"social"`
	Financial float64 `json:"financial"`
	Autism    float64 `json:"autism"`
	Interest  float64 `json:"interest"`
	Need      float64 `json:"need"`
	Visual    float64 `json:"visual"`
	Age       float64 `json:"age"`
	Challenge float64 `json:"challenge"`
}

// Total sums the contributions, rounded to two decimals
func (b Breakdown) Total() float64 {
	sum := b.Emotion + b.Social + b.Financial + b.Autism + b.Interest +
		b.Need + b.Visual + b.Age + b.Challenge
	return math.Round(sum*100) / 100
}

// Scored pairs an activity with its score
type Scored struct {
	Activity  models.Activity `json:"activity"`
	Score     float64         `json:"score"`
	Breakdown Breakdown       `json:"breakdown"`
}

// Score returns the composite affinity of activity for child
func Score(activity *models.Activity, child *models.ChildProfile) float64 {
	return Explain(activity, child).Total()
}

// Explain computes the per-factor contributions for activity and child
func Explain(activity *models.Activity, child *models.ChildProfile) Breakdown {
	return Breakdown{
		Emotion:   emotionAffinity(activity, child),
		Social:    socialFit(activity, child),
		Financial: financialFit(activity, child),
		Autism:    autismFit(activity, child),
		Interest:  interestOverlap(activity, child),
		Need:      NeedBonus(child.Needs[activity.Category]),
		Visual:    visualPreference(activity, child),
		Age:       ageMatch(activity, child),
		Challenge: challengeMatch(activity, child),
	}
}

// Rank scores every activity and returns the top limit, highest first.
// Ties keep ascending activity id order. A limit <= 0 uses DefaultLimit.
func Rank(child *models.ChildProfile, catalog []models.Activity, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultLimit
	}

	scored := make([]Scored, 0, len(catalog))
	for i := range catalog {
		b := Explain(&catalog[i], child)
		scored = append(scored, Scored{Activity: catalog[i], Score: b.Total(), Breakdown: b})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Activity.ID < scored[j].Activity.ID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// Recommend is Rank with the scores stripped
func Recommend(child *models.ChildProfile, catalog []models.Activity, limit int) []models.Activity {
	ranked := Rank(child, catalog, limit)
	out := make([]models.Activity, len(ranked))
	for i, r := range ranked {
		out[i] = r.Activity
	}
	return out
}

func emotionAffinity(activity *models.Activity, child *models.ChildProfile) float64 {
	current := child.CurrentEmotion
	if current == "" {
		current = emotion.Neutral
	}
	return activity.EmotionMapping[current] * EmotionWeight
}

func socialFit(activity *models.Activity, child *models.ChildProfile) float64 {
	level := ChildLevel(child.SocialStatus)
	required := SocialRequirementLevel(activity.SocialRequirement)
	if level >= required {
		return SocialWeight
	}
	return math.Max(0, SocialWeight-SocialPenaltyPerStep*float64(required-level))
}

func financialFit(activity *models.Activity, child *models.ChildProfile) float64 {
	level := ChildLevel(child.FinancialStatus)
	cost := CostLevel(activity.CostLevel)
	if level >= cost {
		return FinancialWeight
	}
	return math.Max(0, FinancialWeight-FinancialPenalty*float64(cost-level))
}

func autismFit(activity *models.Activity, child *models.ChildProfile) float64 {
	var score float64
	severity := child.AutismDetails.Severity
	switch {
	case severity >= 4 && activity.Difficulty == models.DifficultyEasy:
		score += SevereEasyBonus
	case severity >= 3 && activity.Difficulty != models.DifficultyHard:
		score += ModerateBonus
	}

	if anyNeedInBenefits(child.AutismDetails.SpecificNeeds, activity.Benefits) {
		score += SpecificNeedBonus
	}
	return score
}

func anyNeedInBenefits(needs, benefits []string) bool {
	for _, need := range needs {
		need = strings.ToLower(strings.TrimSpace(need))
		if need == "" {
			continue
		}
		for _, benefit := range benefits {
			if strings.Contains(strings.ToLower(benefit), need) {
				return true
			}
		}
	}
	return false
}

func interestOverlap(activity *models.Activity, child *models.ChildProfile) float64 {
	interests := make(map[string]struct{}, len(child.Interests))
	for _, interest := range child.Interests {
		interests[interest] = struct{}{}
	}

	matches := 0
	for _, tag := range activity.InterestTags {
		if _, ok := interests[tag]; ok {
			matches++
		}
	}
	if matches == 0 {
		return 0
	}

	denominator := len(activity.InterestTags)
	if len(child.Interests) > denominator {
		denominator = len(child.Interests)
	}
	return InterestWeight * float64(matches) / float64(denominator)
}

func visualPreference(activity *models.Activity, child *models.ChildProfile) float64 {
	if !contains(child.Preferences, "visual") {
		return 0
	}
	for _, material := range activity.Materials {
		if strings.Contains(strings.ToLower(material), "visual") {
			return VisualBonus
		}
	}
	return 0
}

// ageMatch is a plain substring test: age 1 matches "14-16 years".
func ageMatch(activity *models.Activity, child *models.ChildProfile) float64 {
	if strings.Contains(activity.AgeRange, strconv.Itoa(child.Age)) {
		return AgeBonus
	}
	return 0
}

func challengeMatch(activity *models.Activity, child *models.ChildProfile) float64 {
	for _, challenge := range child.Challenges {
		fields := strings.Fields(strings.ToLower(challenge))
		if len(fields) == 0 {
			continue
		}
		for _, benefit := range activity.Benefits {
			if strings.Contains(strings.ToLower(benefit), fields[0]) {
				return ChallengeBonus
			}
		}
	}
	return 0
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
