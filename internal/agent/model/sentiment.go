package model

import "math"

// Category is the coarse emotional bucket a message is classified into.
type Category string

const (
	CategoryDepression Category = "depression"
	CategoryAnxiety    Category = "anxiety"
	CategoryAnger      Category = "anger"
	CategoryGrief      Category = "grief"
	CategoryPositive   Category = "positive"
	CategoryNeutral    Category = "neutral"
)

// ScoredCategories is the fixed scoring order. Ties resolve to the earlier entry.
var ScoredCategories = []Category{
	CategoryDepression,
	CategoryAnxiety,
	CategoryAnger,
	CategoryGrief,
	CategoryPositive,
}

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryDepression, CategoryAnxiety, CategoryAnger, CategoryGrief, CategoryPositive, CategoryNeutral:
		return true
	}
	return false
}

// Intensity is the low/medium/high bucket of a strength score.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// IntensityFor buckets a strength: <0.4 low, <0.7 medium, otherwise high.
func IntensityFor(strength float64) Intensity {
	switch {
	case strength < 0.4:
		return IntensityLow
	case strength < 0.7:
		return IntensityMedium
	default:
		return IntensityHigh
	}
}

// FallbackStrength is the strength assigned when nothing matched.
const FallbackStrength = 0.3

// Analysis is the result of classifying one message.
type Analysis struct {
	Sentiment Category `json:"sentiment"`
	Strength  float64  `json:"strength"`
}

// FallbackAnalysis is used whenever no usable analysis exists.
func FallbackAnalysis() Analysis {
	return Analysis{Sentiment: CategoryNeutral, Strength: FallbackStrength}
}

// Intensity returns the bucket for the analysis strength.
func (a Analysis) Intensity() Intensity {
	return IntensityFor(a.Strength)
}

// Normalize makes a caller-supplied analysis safe to use: unknown categories
// and non-finite strengths fall back to neutral, strength is clamped to [0,1].
func (a Analysis) Normalize() Analysis {
	if !a.Sentiment.Valid() || math.IsNaN(a.Strength) || math.IsInf(a.Strength, 0) {
		return FallbackAnalysis()
	}
	a.Strength = math.Max(0, math.Min(a.Strength, 1))
	return a
}

// Reply is what the responder hands back for a single message.
type Reply struct {
	Response  string   `json:"response"`
	Sentiment Category `json:"sentiment"`
	Strength  float64  `json:"strength"`
	FollowUp  string   `json:"followUp"`
}
