package tactics

import (
	"sort"

	"github.com/pable/go-pubg-coach/internal/model"
)

// Analyze runs every team analysis for one match and collects their
// mistakes. OverallRating is left empty; it depends on the final scores.
func Analyze(matchID string, m Match, players []model.PlayerAnalysis) model.TelemetryAnalysisResult {
	res := model.TelemetryAnalysisResult{
		MatchID:          matchID,
		Engagement:       Engagement(m),
		Positioning:      Positioning(m),
		Looting:          Looting(m),
		TeamCoordination: Coordination(m, players),
	}
	res.CriticalMistakes = RankMistakes(
		res.Engagement.Mistakes,
		res.Positioning.Mistakes,
		res.Looting.Mistakes,
		res.TeamCoordination.Mistakes,
	)
	res.StrategicRecommendations = Recommendations(res.CriticalMistakes, res.Engagement.WeaponEffectiveness)
	return res
}

// RankMistakes concatenates mistake lists and orders them by impact,
// highest first. Mistakes of equal impact keep their input order.
func RankMistakes(groups ...[]model.CriticalMistake) []model.CriticalMistake {
	out := []model.CriticalMistake{}
	for _, g := range groups {
		out = append(out, g...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Impact > out[j].Impact })
	return out
}

// Recommendations lists the distinct advice of the ranked mistakes followed
// by weapon advice that asks for a change.
func Recommendations(mistakes []model.CriticalMistake, eff []model.WeaponEffectiveness) []string {
	out := []string{}
	seen := make(map[string]bool)
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, mk := range mistakes {
		add(mk.Recommendation)
	}
	for _, we := range eff {
		if we.Recommendation != RangeOK {
			add(we.Recommendation)
		}
	}
	return out
}
