// Package scoring reduces a match analysis to category scores and turns the
// result into a ranked list of coaching tips.
package scoring

import (
	"math"
	"sort"

	"github.com/pable/go-pubg-coach/internal/model"
)

const (
	// StrengthScore is the lowest category score reported as a strength.
	StrengthScore = 80.0
	// WeaknessScore is the score below which a category is a weakness.
	WeaknessScore = 60.0

	maxPriorities = 3
)

// Summarize scores a team analysis. Each category comes from its own
// analyzer; decision making is derived from the mistakes and placement.
func Summarize(t model.TelemetryAnalysisResult, rank int) model.PerformanceScores {
	return Reduce(
		t.Positioning.Score,
		t.Engagement.Score,
		t.Looting.Score,
		t.TeamCoordination.Score,
		DecisionScore(t.CriticalMistakes, rank),
	)
}

// Reduce builds PerformanceScores from the five category scores.
func Reduce(positioning, engagement, looting, teamwork, decision float64) model.PerformanceScores {
	s := model.PerformanceScores{
		Positioning:    positioning,
		Engagement:     engagement,
		Looting:        looting,
		Teamwork:       teamwork,
		DecisionMaking: decision,
		Strengths:      []string{},
		Weaknesses:     []string{},
	}

	cats := s.Categories()
	var sum float64
	for _, c := range cats {
		sum += c.Value
		switch {
		case c.Value >= StrengthScore:
			s.Strengths = append(s.Strengths, c.Name)
		case c.Value < WeaknessScore:
			s.Weaknesses = append(s.Weaknesses, c.Name)
		}
	}
	s.Overall = sum / float64(len(cats))
	s.ImprovementPotential = math.Max(0, 100-s.Overall)

	weak := make([]model.CategoryScore, 0, len(s.Weaknesses))
	for _, c := range cats {
		if c.Value < WeaknessScore {
			weak = append(weak, c)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool { return weak[i].Value < weak[j].Value })
	if len(weak) > maxPriorities {
		weak = weak[:maxPriorities]
	}
	s.PriorityImprovements = make([]string, 0, len(weak))
	for _, c := range weak {
		s.PriorityImprovements = append(s.PriorityImprovements, c.Name)
	}
	return s
}

// DecisionScore starts from 100, deducts per mistake by impact and adjusts
// for the final placement.
func DecisionScore(mistakes []model.CriticalMistake, rank int) float64 {
	score := 100.0
	for _, m := range mistakes {
		switch m.Impact {
		case model.ImpactHigh:
			score -= 15
		case model.ImpactMedium:
			score -= 8
		case model.ImpactLow:
			score -= 3
		}
	}
	switch {
	case rank > 0 && rank <= 10:
		score += 10
	case rank > 50:
		score -= 10
	}
	return math.Max(0, math.Min(100, score))
}

// Ratings, best first.
const (
	RatingExcellent    = "EXCELLENT"
	RatingGood         = "GOOD"
	RatingAverage      = "AVERAGE"
	RatingBelowAverage = "BELOW_AVERAGE"
	RatingPoor         = "POOR"
)

// Rating labels an overall score.
func Rating(overall float64) string {
	switch {
	case overall >= 80:
		return RatingExcellent
	case overall >= 65:
		return RatingGood
	case overall >= 50:
		return RatingAverage
	case overall >= 35:
		return RatingBelowAverage
	}
	return RatingPoor
}
