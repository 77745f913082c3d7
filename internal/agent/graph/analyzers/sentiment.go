package analyzers

import (
	"strings"

	"github.com/serenity-chat/server/internal/agent/model"
)

// Keyword weights: every negative match counts double.
const (
	defaultWeight  = 2
	positiveWeight = 1
	strengthScale  = 10.0
)

// sentimentKeywords maps each scored category to its keyword list.
var sentimentKeywords = map[model.Category][]string{
	model.CategoryDepression: {
		"sad", "depressed", "hopeless", "worthless", "tired", "lonely",
		"overwhelmed", "exhausted", "empty", "dark", "struggle",
	},
	model.CategoryAnxiety: {
		"worried", "anxious", "nervous", "panic", "stress", "afraid",
		"overwhelmed", "tense", "restless", "scared",
	},
	model.CategoryAnger: {
		"angry", "furious", "rage", "irritated", "frustrated", "mad",
		"annoyed", "hostile",
	},
	model.CategoryGrief: {
		"loss", "grieving", "mourning", "heartbroken", "missing",
		"devastated", "pain", "hurt",
	},
	model.CategoryPositive: {
		"happy", "joy", "excited", "grateful", "hopeful", "proud",
		"optimistic", "love", "peace",
	},
}

// Keywords returns a copy of the keyword list for a scored category.
func Keywords(c model.Category) []string {
	return append([]string(nil), sentimentKeywords[c]...)
}

// Scores holds the weighted keyword total per scored category.
type Scores map[model.Category]int

// Total sums all category scores.
func (s Scores) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Score counts keyword hits per category. Matching is case-insensitive and
// substring based, so "sadness" counts as "sad".
func Score(message string) Scores {
	lower := strings.ToLower(message)

	scores := make(Scores, len(model.ScoredCategories))
	for _, category := range model.ScoredCategories {
		weight := defaultWeight
		if category == model.CategoryPositive {
			weight = positiveWeight
		}
		for _, keyword := range sentimentKeywords[category] {
			scores[category] += strings.Count(lower, keyword) * weight
		}
	}
	return scores
}

// AnalyzeSentiment classifies a message. The highest score wins with ties
// going to the earlier category in model.ScoredCategories; strength is
// total/10 capped at 1. Keyword-free input yields the neutral fallback.
func AnalyzeSentiment(message string) model.Analysis {
	scores := Score(message)

	total := scores.Total()
	if total == 0 {
		return model.FallbackAnalysis()
	}

	dominant := model.ScoredCategories[0]
	for _, category := range model.ScoredCategories[1:] {
		if scores[category] > scores[dominant] {
			dominant = category
		}
	}

	strength := float64(total) / strengthScale
	if strength > 1 {
		strength = 1
	}

	return model.Analysis{Sentiment: dominant, Strength: strength}
}
