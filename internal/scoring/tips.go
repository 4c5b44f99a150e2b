package scoring

import (
	"fmt"
	"sort"

	"github.com/pable/go-pubg-coach/internal/model"
)

// MaxTips caps the generated tip list.
const MaxTips = 10

// mistakeTips holds one tip per mistake type that has coaching attached.
var mistakeTips = map[model.MistakeType]model.CoachingTip{
	model.MistakeZoneManagement: {
		Urgency:     model.UrgencyImmediate,
		Priority:    model.PriorityHigh,
		Title:       "Rotate earlier",
		Description: "Zone timing cost the team health and position this match.",
		ActionSteps: []string{
			"Mark the next zone as soon as it is announced",
			"Leave for the zone before half of the wait timer has elapsed",
			"Keep a vehicle nearby for long rotations",
		},
		Timeframe:  "next 3 matches",
		Difficulty: "easy",
	},
	model.MistakeEngagement: {
		Urgency:     model.UrgencyImmediate,
		Priority:    model.PriorityHigh,
		Title:       "Choose your fights",
		Description: "Too many fights were taken at the wrong range or left the team exposed.",
		ActionSteps: []string{
			"Check your loadout's effective range before peeking",
			"Disengage from fights that last longer than 30 seconds",
			"Reposition after every knock to avoid third parties",
		},
		Timeframe:  "next 5 matches",
		Difficulty: "medium",
	},
	model.MistakeTeamCoordination: {
		Urgency:     model.UrgencyShortTerm,
		Priority:    model.PriorityHigh,
		Title:       "Play as a squad",
		Description: "Teammates fought and died apart from each other.",
		ActionSteps: []string{
			"Call out enemy positions with direction and distance",
			"Stay within 100m of at least one teammate",
			"Revive behind smoke before re-engaging",
		},
		Timeframe:  "next week",
		Difficulty: "medium",
	},
}

// weaknessTips holds one fixed tip per weakness label.
var weaknessTips = map[string]model.CoachingTip{
	model.ScoreDecisionMaking: {
		Urgency:     model.UrgencyShortTerm,
		Priority:    model.PriorityMedium,
		Title:       "Slow down your decisions",
		Description: "Several avoidable mistakes added up over the match.",
		ActionSteps: []string{
			"Before each move, ask what the zone and nearby squads will do next",
			"Review one death per session and name the decision that caused it",
		},
		Timeframe:  "2 weeks",
		Difficulty: "hard",
	},
	model.ScorePositioning: {
		Urgency:     model.UrgencyShortTerm,
		Priority:    model.PriorityMedium,
		Title:       "Hold better ground",
		Description: "Your positions left you exposed or out of the zone.",
		ActionSteps: []string{
			"Take compounds on the zone's edge facing its centre",
			"Prefer high ground and hard cover when holding",
		},
		Timeframe:  "2 weeks",
		Difficulty: "medium",
	},
	model.ScoreEngagement: {
		Urgency:     model.UrgencyShortTerm,
		Priority:    model.PriorityMedium,
		Title:       "Sharpen your gunfights",
		Description: "Fight outcomes were below par for your rank.",
		ActionSteps: []string{
			"Spend 10 minutes on recoil control before playing",
			"Pre-aim common angles while moving",
		},
		Timeframe:  "2 weeks",
		Difficulty: "medium",
	},
	model.ScoreLooting: {
		Urgency:     model.UrgencyLongTerm,
		Priority:    model.PriorityLow,
		Title:       "Loot with a plan",
		Description: "You spent too long looting or left with a thin kit.",
		ActionSteps: []string{
			"Set a loot target: one main weapon, attachments, 5 heals",
			"Stop looting once the target is met and move on",
		},
		Timeframe:  "1 month",
		Difficulty: "easy",
	},
	model.ScoreTeamwork: {
		Urgency:     model.UrgencyShortTerm,
		Priority:    model.PriorityMedium,
		Title:       "Trade and support",
		Description: "Teammates were rarely traded or revived.",
		ActionSteps: []string{
			"Hold an angle that covers your teammate's fight",
			"Prioritise revives when the area is safe",
		},
		Timeframe:  "2 weeks",
		Difficulty: "medium",
	},
}

// rankTip picks the placement-bracket tip; ok is false for top-10 finishes.
func rankTip(rank int) (model.CoachingTip, bool) {
	switch {
	case rank > 50:
		return model.CoachingTip{
			Urgency:     model.UrgencyImmediate,
			Priority:    model.PriorityHigh,
			Title:       "Survive the early game",
			Description: fmt.Sprintf("Finishing #%d means the match ended before the late circles.", rank),
			ActionSteps: []string{
				"Drop away from the flight path",
				"Avoid fights until you have armour and a main weapon",
			},
			Timeframe:  "next 3 matches",
			Difficulty: "easy",
		}, true
	case rank > 20:
		return model.CoachingTip{
			Urgency:     model.UrgencyShortTerm,
			Priority:    model.PriorityMedium,
			Title:       "Reach the mid game stronger",
			Description: fmt.Sprintf("Finishing #%d: the mid-game rotations are where placement was lost.", rank),
			ActionSteps: []string{
				"Rotate with cover and avoid open fields",
				"Take safe fights only while the zone is large",
			},
			Timeframe:  "next week",
			Difficulty: "medium",
		}, true
	case rank > 10:
		return model.CoachingTip{
			Urgency:     model.UrgencyLongTerm,
			Priority:    model.PriorityLow,
			Title:       "Convert to top 10",
			Description: fmt.Sprintf("Finishing #%d: a solid game that fell short of the final circles.", rank),
			ActionSteps: []string{
				"Secure a compound in the fourth circle early",
				"Count remaining squads before committing to fights",
			},
			Timeframe:  "1 month",
			Difficulty: "hard",
		}, true
	}
	return model.CoachingTip{}, false
}

// Generate collects candidate tips from the mistakes, the low category
// scores, the placement and the weaknesses, drops repeated titles, and
// returns at most MaxTips ordered by priority then urgency.
func Generate(t model.TelemetryAnalysisResult, s model.PerformanceScores, rank int) []model.CoachingTip {
	var tips []model.CoachingTip

	seenType := make(map[model.MistakeType]bool)
	for _, m := range t.CriticalMistakes {
		tip, ok := mistakeTips[m.Type]
		if !ok || seenType[m.Type] {
			continue
		}
		seenType[m.Type] = true
		tips = append(tips, tip)
	}

	for _, c := range s.Categories() {
		if c.Value < WeaknessScore {
			tips = append(tips, scoreTip(c))
		}
	}

	if tip, ok := rankTip(rank); ok {
		tips = append(tips, tip)
	}

	for _, w := range s.Weaknesses {
		if tip, ok := weaknessTips[w]; ok {
			tips = append(tips, tip)
		}
	}

	out := []model.CoachingTip{}
	seen := make(map[string]bool)
	for _, tip := range tips {
		if seen[tip.Title] {
			continue
		}
		seen[tip.Title] = true
		tip.ActionSteps = append([]string(nil), tip.ActionSteps...)
		out = append(out, tip)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Urgency > out[j].Urgency
	})
	if len(out) > MaxTips {
		out = out[:MaxTips]
	}
	return out
}

// scoreTip is the generic tip for a category scored below WeaknessScore.
func scoreTip(c model.CategoryScore) model.CoachingTip {
	tip := model.CoachingTip{
		Urgency:     model.UrgencyShortTerm,
		Priority:    model.PriorityMedium,
		Title:       fmt.Sprintf("Improve %s", c.Name),
		Description: fmt.Sprintf("Your %s score was %.0f/100.", c.Name, c.Value),
		ActionSteps: []string{
			fmt.Sprintf("Watch your last death and note what %s choice led to it", c.Name),
			fmt.Sprintf("Pick one %s habit to practise for the next few matches", c.Name),
		},
		Timeframe:  "2 weeks",
		Difficulty: "medium",
	}
	if c.Value < 40 {
		tip.Urgency = model.UrgencyImmediate
		tip.Priority = model.PriorityHigh
		tip.Timeframe = "next 3 matches"
	}
	return tip
}
