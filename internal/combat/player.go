package combat

import (
	"github.com/pable/go-pubg-coach/internal/classify"
	"github.com/pable/go-pubg-coach/internal/model"
)

// headshotReason is the damage reason recorded for head hits.
const headshotReason = "HeadShot"

// AnalyzePlayer builds the combat breakdown for one tracked player. team
// holds the roster-filtered streams and all the complete match streams;
// both must already be time-sorted (see classify.Split). Neither is modified.
func AnalyzePlayer(name string, team, all *classify.Streams) model.PlayerAnalysis {
	is := func(c *model.Character) bool {
		return c != nil && classify.SameName(c.Name, name)
	}

	pa := model.PlayerAnalysis{
		Name:        name,
		Kills:       []model.Kill{},
		Knockdowns:  []model.Knockdown{},
		DamageDealt: []model.TakeDamage{},
		DamageTaken: []model.TakeDamage{},
		Revives:     []model.Revive{},
		Deaths:      []model.Kill{},
		KnockedDown: []model.Knockdown{},
	}

	for _, k := range team.Kills {
		killer := k.CreditedKiller()
		if is(killer) && !is(k.Victim) {
			pa.Kills = append(pa.Kills, k)
		}
		if is(k.Victim) {
			pa.Deaths = append(pa.Deaths, k)
		}
	}
	for _, kd := range team.Knockdowns {
		if is(kd.Attacker) && !is(kd.Victim) {
			pa.Knockdowns = append(pa.Knockdowns, kd)
		}
		if is(kd.Victim) {
			pa.KnockedDown = append(pa.KnockedDown, kd)
		}
	}
	for _, d := range team.Damages {
		if is(d.Attacker) && !is(d.Victim) {
			pa.DamageDealt = append(pa.DamageDealt, d)
			pa.TotalDamageDealt += d.Damage
		}
		if is(d.Victim) {
			pa.DamageTaken = append(pa.DamageTaken, d)
			pa.TotalDamageTaken += d.Damage
		}
	}
	for _, r := range team.Revives {
		if is(r.Reviver) {
			pa.Revives = append(pa.Revives, r)
		}
	}

	var fireCounts []model.WeaponFireCount
	for _, fc := range team.FireCounts {
		if is(fc.Character) {
			fireCounts = append(fireCounts, fc)
		}
	}
	var attacks []model.Attack
	for _, at := range team.Attacks {
		if is(at.Attacker) {
			attacks = append(attacks, at)
		}
	}

	pa.WeaponStats = WeaponStats(WeaponInputs{
		Kills:      pa.Kills,
		Knockdowns: pa.Knockdowns,
		Damages:    pa.DamageDealt,
		FireCounts: fireCounts,
		Attacks:    attacks,
	})
	pa.KillChains = KillChains(pa.Kills)
	pa.Assists = Assists(name, all.Kills, all.Damages, all.Knockdowns)

	pa.KDRatio = kdRatio(len(pa.Kills), len(pa.Deaths))

	var distSum float64
	var distN, headshots int
	for _, k := range pa.Kills {
		if k.Distance > 0 {
			distSum += k.Distance / 100
			distN++
		}
		if k.DamageReason == headshotReason {
			headshots++
		}
	}
	if distN > 0 {
		pa.AvgKillDistance = distSum / float64(distN)
	}
	pa.HeadshotPct = pct(headshots, len(pa.Kills))
	return pa
}

// kdRatio returns kills/deaths, or kills when the player never died.
func kdRatio(kills, deaths int) float64 {
	if deaths == 0 {
		return float64(kills)
	}
	return float64(kills) / float64(deaths)
}
