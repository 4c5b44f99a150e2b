package tactics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/golang/geo/r3"

	"github.com/pable/go-pubg-coach/internal/classify"
	"github.com/pable/go-pubg-coach/internal/model"
	"github.com/pable/go-pubg-coach/internal/weapons"
)

const (
	highGroundDelta = 5.0 // raw vertical units

	supportRadius    = 100.0 // m
	supportLookback  = 30 * time.Second
	overExtendShare  = 0.3
	thirdPartyWindow = 60 * time.Second
	thirdPartyRadius = 200.0 // m
	thirdPartyEvents = 2

	lowAccuracy   = 10.0
	lowWinRate    = 40.0
	minFightCount = 3
)

// RangeOK is the recommendation for a weapon used inside its envelope.
const RangeOK = "Effective at current ranges"

// engagementID is the join key shared by the knockdown and the kill of one
// exchange: the DBNO id when present, else the attack id.
func engagementID(dbno, attack int64, fallback string) string {
	switch {
	case dbno > 0:
		return "d:" + strconv.FormatInt(dbno, 10)
	case attack > 0:
		return "a:" + strconv.FormatInt(attack, 10)
	}
	return fallback
}

// Engagement scores the team's fights: outcomes, distances, weapon use,
// positional advantages and third-party exposure.
func Engagement(m Match) model.EngagementAnalysis {
	kills := m.teamKills()
	deaths := m.teamDeaths()
	knocks := m.teamKnockdowns()

	ea := model.EngagementAnalysis{}

	ids := make(map[string]struct{})
	for i, k := range kills {
		ids[engagementID(k.DBNOID, k.AttackID, "k:"+strconv.Itoa(i))] = struct{}{}
	}
	for i, k := range deaths {
		ids[engagementID(k.DBNOID, k.AttackID, "x:"+strconv.Itoa(i))] = struct{}{}
	}
	for i, kd := range knocks {
		ids[engagementID(kd.DBNOID, kd.AttackID, "g:"+strconv.Itoa(i))] = struct{}{}
	}
	ea.TotalEngagements = len(ids)
	ea.WonEngagements = len(kills) + len(knocks)
	ea.LostEngagements = len(deaths)
	ea.WinRate = ratio(float64(ea.WonEngagements), float64(ea.WonEngagements+ea.LostEngagements))

	var distSum float64
	var distN int
	for _, k := range kills {
		if k.Distance > 0 {
			distSum += k.Distance / 100
			distN++
		}
		if k.Killer != nil && k.Victim != nil && k.Killer.Location.Z-k.Victim.Location.Z > highGroundDelta {
			ea.Positioning.HighGroundAdvantage++
		}
	}
	if distN > 0 {
		ea.AvgEngagementDistance = distSum / float64(distN)
	}

	ea.WeaponEffectiveness = effectiveness(m, kills)
	ea.Positioning.OverExtensions, ea.Positioning.OverExtensionEstimated = overExtensions(m, deaths)

	for _, d := range deaths {
		if thirdParty(m.All, d) {
			ea.ThirdPartySituations++
		}
		if d.VictimWeapon == "" || d.Distance <= 0 {
			continue
		}
		if weapons.Unfavorable(weapons.Category(weapons.Name(d.VictimWeapon)), d.Distance/100) {
			ea.UnfavorableRangeDeaths++
		}
	}

	ea.Mistakes = engagementMistakes(ea)
	ea.Score = engagementScore(ea, len(kills))
	return ea
}

// effectiveness joins the team's kills, fire counts and hits by canonical
// weapon name.
func effectiveness(m Match, kills []model.Kill) []model.WeaponEffectiveness {
	type accum struct {
		kills, shots, hits int
		distSum            float64
		distN              int
	}
	byName := make(map[string]*accum)
	get := func(code string) *accum {
		name := weapons.Name(code)
		a := byName[name]
		if a == nil {
			a = &accum{}
			byName[name] = a
		}
		return a
	}
	for _, k := range kills {
		a := get(k.Weapon)
		a.kills++
		if k.Distance > 0 {
			a.distSum += k.Distance / 100
			a.distN++
		}
	}
	for _, fc := range m.Team.FireCounts {
		if m.tracked(fc.Character) {
			get(fc.Weapon).shots += fc.FireCount
		}
	}
	for _, d := range m.Team.Damages {
		if !m.tracked(d.Attacker) || m.tracked(d.Victim) {
			continue
		}
		if a, ok := byName[weapons.Name(d.Weapon)]; ok {
			a.hits++
		}
	}

	out := []model.WeaponEffectiveness{}
	for name, a := range byName {
		if name == model.UnknownWeapon {
			continue
		}
		we := model.WeaponEffectiveness{
			Weapon:     name,
			Category:   weapons.Category(name),
			Kills:      a.kills,
			ShotsFired: a.shots,
			Hits:       a.hits,
			Accuracy:   ratio(float64(a.hits), float64(a.shots)),
		}
		if a.distN > 0 {
			we.AvgDistance = a.distSum / float64(a.distN)
		}
		we.Recommendation = rangeAdvice(we)
		out = append(out, we)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kills != out[j].Kills {
			return out[i].Kills > out[j].Kills
		}
		return out[i].Weapon < out[j].Weapon
	})
	return out
}

func rangeAdvice(we model.WeaponEffectiveness) string {
	r := weapons.OptimalRange(we.Category)
	switch {
	case we.ShotsFired > 0 && we.Accuracy < lowAccuracy:
		return fmt.Sprintf("Practice recoil control with the %s (%.1f%% accuracy)", we.Weapon, we.Accuracy)
	case we.AvgDistance > 0 && we.AvgDistance < r.Min:
		return fmt.Sprintf("Engage from longer range with the %s, around %.0fm", we.Weapon, r.Optimal)
	case we.AvgDistance > r.Max:
		return fmt.Sprintf("Engage from shorter range with the %s, around %.0fm", we.Weapon, r.Optimal)
	}
	return RangeOK
}

// overExtensions counts deaths with no teammate within supportRadius shortly
// before. Without any teammate position data it falls back to a fixed share
// of deaths and reports the result as estimated.
func overExtensions(m Match, deaths []model.Kill) (int, bool) {
	tracks := m.tracks()
	if len(tracks) < 2 {
		return int(math.Round(overExtendShare * float64(len(deaths)))), true
	}

	count := 0
	for _, d := range deaths {
		victim, _ := m.Roster.Resolve(d.Victim.Name)
		at := d.Victim.Location
		if at == (r3.Vector{}) {
			at = lastLocation(tracks[victim], d.At)
		}

		nearest := math.Inf(1)
		for _, name := range sortedNames(tracks) {
			if name == victim {
				continue
			}
			var sample *model.Position
			for i := range tracks[name] {
				p := &tracks[name][i]
				if p.At.After(d.At) {
					break
				}
				sample = p
			}
			if sample == nil || d.At.Sub(sample.At) > supportLookback {
				continue
			}
			nearest = math.Min(nearest, flatDist(at, sample.Character.Location))
		}
		if !math.IsInf(nearest, 1) && nearest > cm(supportRadius) {
			count++
		}
	}
	return count, false
}

// lastLocation returns the last sampled location at or before t.
func lastLocation(track []model.Position, t time.Time) r3.Vector {
	var loc r3.Vector
	for _, p := range track {
		if p.At.After(t) {
			break
		}
		loc = model.LocationOf(p.Character)
	}
	return loc
}

// thirdParty reports whether other fights broke out around a death: at least
// thirdPartyEvents kills or knockdowns from any team near the victim within
// the window, excluding the death's own exchange.
func thirdParty(all *classify.Streams, death model.Kill) bool {
	at := death.Victim.Location
	if at == (r3.Vector{}) {
		return false
	}
	own := engagementID(death.DBNOID, death.AttackID, "")
	near := func(t time.Time, victim *model.Character) bool {
		if victim == nil || victim.Location == (r3.Vector{}) {
			return false
		}
		gap := t.Sub(death.At)
		if gap < -thirdPartyWindow || gap > thirdPartyWindow {
			return false
		}
		return flatDist(at, victim.Location) <= cm(thirdPartyRadius)
	}

	n := 0
	for _, k := range all.Kills {
		if k.At.Equal(death.At) && k.Victim != nil && classify.SameName(k.Victim.Name, death.Victim.Name) {
			continue
		}
		if own != "" && engagementID(k.DBNOID, k.AttackID, "") == own {
			continue
		}
		if near(k.At, k.Victim) {
			n++
		}
	}
	for _, kd := range all.Knockdowns {
		if own != "" && engagementID(kd.DBNOID, kd.AttackID, "") == own {
			continue
		}
		if kd.Victim != nil && classify.SameName(kd.Victim.Name, death.Victim.Name) {
			continue
		}
		if near(kd.At, kd.Victim) {
			n++
		}
	}
	return n >= thirdPartyEvents
}

func engagementMistakes(ea model.EngagementAnalysis) []model.CriticalMistake {
	out := []model.CriticalMistake{}
	if n := ea.UnfavorableRangeDeaths; n > 0 {
		impact := model.ImpactMedium
		if n > 2 {
			impact = model.ImpactHigh
		}
		out = append(out, model.CriticalMistake{
			Type:           model.MistakeEngagement,
			Impact:         impact,
			Description:    fmt.Sprintf("%d deaths at ranges the equipped weapon was not built for", n),
			Recommendation: "Take fights at your weapon's optimal range, or swap to a loadout that covers it",
			Count:          n,
		})
	}
	// The rate is over outcomes; the gate counts distinct engagements.
	if ea.WinRate < lowWinRate && ea.TotalEngagements > minFightCount {
		out = append(out, model.CriticalMistake{
			Type:           model.MistakeEngagement,
			Impact:         model.ImpactHigh,
			Description:    fmt.Sprintf("Won only %.0f%% of %d engagements", ea.WinRate, ea.TotalEngagements),
			Recommendation: "Pick fights you can win: wait for cover, numbers or an enemy already under fire",
			Count:          ea.LostEngagements,
		})
	}
	if ea.ThirdPartySituations > 1 {
		out = append(out, model.CriticalMistake{
			Type:           model.MistakeEngagement,
			Impact:         model.ImpactMedium,
			Description:    fmt.Sprintf("Third-partied %d times", ea.ThirdPartySituations),
			Recommendation: "Finish fights quickly and reposition before nearby squads arrive",
			Count:          ea.ThirdPartySituations,
		})
	}
	return out
}

func engagementScore(ea model.EngagementAnalysis, kills int) float64 {
	if ea.TotalEngagements == 0 {
		return 50
	}
	score := 50 + (ea.WinRate-50)*0.5
	score += math.Min(20, 2*float64(kills))
	score += 2 * float64(ea.Positioning.HighGroundAdvantage)
	score -= 5 * float64(ea.UnfavorableRangeDeaths)
	score -= 5 * float64(ea.ThirdPartySituations)
	score -= 3 * float64(ea.Positioning.OverExtensions)
	return clamp(score)
}
