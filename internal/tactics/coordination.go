package tactics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/golang/geo/r3"

	"github.com/pable/go-pubg-coach/internal/classify"
	"github.com/pable/go-pubg-coach/internal/model"
)

const (
	// TradeWindow is how soon after a teammate's death killing the killer
	// still counts as a trade.
	TradeWindow = 10 * time.Second

	maxSpread         = 300.0 // m
	maxKnocksUnhelped = 2
	untradedDeaths    = 3
)

// Coordination measures how the squad played together: revives, assists,
// trades and how spread out it moved. players must hold one PlayerAnalysis
// per roster member.
func Coordination(m Match, players []model.PlayerAnalysis) model.TeamCoordinationAnalysis {
	tc := model.TeamCoordinationAnalysis{Mistakes: []model.CriticalMistake{}}

	for _, r := range m.Team.Revives {
		if m.tracked(r.Reviver) {
			tc.Revives++
		}
	}
	for _, p := range players {
		tc.Assists += len(p.Assists)
	}

	// ---- Trades: a roster player kills the killer of a teammate. ----
	deaths := m.teamDeaths()
	kills := m.teamKills()
	for _, d := range deaths {
		killer := d.CreditedKiller()
		if killer == nil || m.tracked(killer) {
			continue
		}
		for _, k := range kills {
			if !k.At.After(d.At) || k.At.Sub(d.At) > TradeWindow {
				continue
			}
			if classify.SameName(model.NameOf(k.Victim), killer.Name) {
				tc.TradeKills++
				break
			}
		}
	}

	tc.AvgTeamSpread = teamSpread(m.tracks())

	knocked := 0
	for _, kd := range m.Team.Knockdowns {
		if m.tracked(kd.Victim) {
			knocked++
		}
	}
	if knocked > maxKnocksUnhelped && tc.Revives == 0 {
		tc.Mistakes = append(tc.Mistakes, model.CriticalMistake{
			Type:           model.MistakeTeamCoordination,
			Impact:         model.ImpactMedium,
			Description:    fmt.Sprintf("Knocked %d times without a single revive", knocked),
			Recommendation: "Cover knocked teammates with smoke and revive before re-engaging",
			Count:          knocked,
		})
	}
	if tc.AvgTeamSpread > maxSpread {
		tc.Mistakes = append(tc.Mistakes, model.CriticalMistake{
			Type:           model.MistakeTeamCoordination,
			Impact:         model.ImpactMedium,
			Description:    fmt.Sprintf("Squad was spread %.0fm apart on average", tc.AvgTeamSpread),
			Recommendation: "Move as a unit and stay within support distance of each other",
			Count:          1,
		})
	}
	if len(deaths) >= untradedDeaths && tc.TradeKills == 0 {
		tc.Mistakes = append(tc.Mistakes, model.CriticalMistake{
			Type:           model.MistakeTeamCoordination,
			Impact:         model.ImpactLow,
			Description:    fmt.Sprintf("None of %d deaths were traded", len(deaths)),
			Recommendation: "Hold angles that cover your teammate's fight so you can trade the kill",
			Count:          len(deaths),
		})
	}
	tc.Score = coordinationScore(tc)
	return tc
}

// teamSpread buckets samples into positionInterval slots and averages the
// mean pairwise horizontal distance (m) of every slot with two or more
// players.
func teamSpread(tracks map[string][]model.Position) float64 {
	slots := make(map[int64]map[string]r3.Vector)
	for name, track := range tracks {
		for _, p := range track {
			key := p.At.Truncate(positionInterval).Unix()
			if slots[key] == nil {
				slots[key] = make(map[string]r3.Vector)
			}
			slots[key][name] = model.LocationOf(p.Character)
		}
	}

	keys := make([]int64, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var total float64
	var n int
	for _, k := range keys {
		locs := make([]r3.Vector, 0, len(slots[k]))
		for _, name := range sortedKeys(slots[k]) {
			locs = append(locs, slots[k][name])
		}
		if len(locs) < 2 {
			continue
		}
		var sum float64
		var pairs int
		for i := range locs {
			for j := i + 1; j < len(locs); j++ {
				sum += flatDist(locs[i], locs[j]) / 100
				pairs++
			}
		}
		total += sum / float64(pairs)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func sortedKeys(m map[string]r3.Vector) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func coordinationScore(tc model.TeamCoordinationAnalysis) float64 {
	score := 50.0
	score += math.Min(20, 5*float64(tc.Revives))
	score += math.Min(20, 3*float64(tc.Assists))
	score += math.Min(15, 5*float64(tc.TradeKills))
	switch {
	case tc.AvgTeamSpread > maxSpread:
		score -= 15
	case tc.AvgTeamSpread > maxSpread/2:
		score -= 5
	}
	for _, mk := range tc.Mistakes {
		score -= 5 * float64(mk.Impact)
	}
	return clamp(score)
}
