// Package emotion maps classifier and user supplied labels onto the
// application's canonical emotion vocabulary and decides whether an
// automatic prediction is trustworthy enough to change a child's state.
package emotion

import (
	"fmt"
	"sort"
	"strings"
)

// Canonical emotion labels
const (
	Happy      = "happy"
	Sad        = "sad"
	Anxious    = "anxious"
	Calm       = "calm"
	Excited    = "excited"
	Frustrated = "frustrated"
	Neutral    = "neutral"

	// Uncertain is an out-of-band label. It is recorded but never applied.
	Uncertain = "uncertain"
)

// Gate thresholds for automatic updates
const (
	MinConfidence = 0.5
	MinMargin     = 0.1
)

// Canonical lists the accepted labels for manual updates, in display order
var Canonical = []string{Happy, Sad, Anxious, Calm, Excited, Frustrated, Neutral}

// sourceLabels maps the classifier's dataset vocabulary to canonical labels
var sourceLabels = map[string]string{
	"Natural":  Calm,
	"anger":    Frustrated,
	"fear":     Anxious,
	"joy":      Happy,
	"sadness":  Sad,
	"surprise": Excited,
}

// InvalidEmotionError is returned when a manual update names a label
// outside the canonical vocabulary.
type InvalidEmotionError struct {
	Label   string
	Allowed []string
}

func (e *InvalidEmotionError) Error() string {
	return fmt.Sprintf("invalid emotion %q: must be one of %s", e.Label, strings.Join(e.Allowed, ", "))
}

// Normalize converts a raw label to canonical form. Empty input becomes
// neutral. Labels that match neither the sentinel nor the classifier
// vocabulary are returned trimmed but otherwise unchanged.
func Normalize(label string) string {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return Neutral
	}
	if strings.EqualFold(trimmed, Uncertain) {
		return Uncertain
	}
	if mapped, ok := sourceLabels[trimmed]; ok {
		return mapped
	}
	for source, mapped := range sourceLabels {
		if strings.EqualFold(source, trimmed) {
			return mapped
		}
	}
	return trimmed
}

// IsCanonical reports whether label is one of the seven canonical emotions.
// The uncertain sentinel is not canonical.
func IsCanonical(label string) bool {
	for _, c := range Canonical {
		if label == c {
			return true
		}
	}
	return false
}

// ValidateManual normalizes label and rejects anything non-canonical
func ValidateManual(label string) (string, error) {
	normalized := Normalize(label)
	if !IsCanonical(normalized) {
		return "", &InvalidEmotionError{Label: label, Allowed: append([]string(nil), Canonical...)}
	}
	return normalized, nil
}

// Margin is the gap between the two highest class probabilities. With
// fewer than two probabilities it falls back to the reported confidence.
func Margin(confidence float64, probabilities map[string]float64) float64 {
	if len(probabilities) < 2 {
		return confidence
	}
	values := make([]float64, 0, len(probabilities))
	for _, p := range probabilities {
		values = append(values, p)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	return values[0] - values[1]
}

// Passes reports whether a prediction clears the confidence and margin gate
func Passes(confidence, margin float64) bool {
	return confidence >= MinConfidence && margin >= MinMargin
}
