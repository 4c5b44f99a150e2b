package combat

import (
	"time"

	"github.com/pable/go-pubg-coach/internal/classify"
	"github.com/pable/go-pubg-coach/internal/model"
	"github.com/pable/go-pubg-coach/internal/weapons"
)

const (
	// AssistWindow is how far before a kill a contribution still counts.
	AssistWindow = 10 * time.Second
	// AssistMinDamage is the damage needed for a damage-only assist.
	AssistMinDamage = 20.0
)

// inWindow reports whether t is strictly before kill and no more than
// AssistWindow earlier.
func inWindow(t, kill time.Time) bool {
	return t.Before(kill) && kill.Sub(t) <= AssistWindow
}

// Assists credits player for kills made by others. kills, damages and
// knockdowns must be the complete match streams: the damage percentage is
// relative to all damage the victim took before the kill, from anyone.
func Assists(player string, kills []model.Kill, damages []model.TakeDamage, knockdowns []model.Knockdown) []model.AssistInfo {
	// Index by victim so each kill only scans events against its victim.
	type victimEvents struct {
		damages    []model.TakeDamage
		knockdowns []model.Knockdown
	}
	byVictim := make(map[string]*victimEvents)
	get := func(name string) *victimEvents {
		key := classify.Key(name)
		v := byVictim[key]
		if v == nil {
			v = &victimEvents{}
			byVictim[key] = v
		}
		return v
	}
	for _, d := range damages {
		if d.Victim == nil {
			continue
		}
		v := get(d.Victim.Name)
		v.damages = append(v.damages, d)
	}
	for _, kd := range knockdowns {
		if kd.Victim == nil {
			continue
		}
		v := get(kd.Victim.Name)
		v.knockdowns = append(v.knockdowns, kd)
	}

	assists := []model.AssistInfo{}
	for _, k := range kills {
		killer := k.CreditedKiller()
		if killer != nil && classify.SameName(killer.Name, player) {
			continue
		}
		if k.Victim == nil || classify.SameName(k.Victim.Name, player) {
			continue
		}
		ve := byVictim[classify.Key(k.Victim.Name)]
		if ve == nil {
			continue
		}

		var (
			playerDamage float64
			totalDamage  float64
			weapon       string
		)
		for _, d := range ve.damages {
			if !d.At.Before(k.At) || d.Attacker == nil {
				continue
			}
			totalDamage += d.Damage
			if inWindow(d.At, k.At) && classify.SameName(d.Attacker.Name, player) {
				playerDamage += d.Damage
				if weapon == "" {
					weapon = d.Weapon
				}
			}
		}

		var knock *model.Knockdown
		for i := range ve.knockdowns {
			kd := &ve.knockdowns[i]
			if kd.Attacker != nil && classify.SameName(kd.Attacker.Name, player) && inWindow(kd.At, k.At) {
				knock = kd
				break
			}
		}

		byDamage := playerDamage >= AssistMinDamage
		if !byDamage && knock == nil {
			continue
		}

		typ := model.AssistDamage
		switch {
		case byDamage && knock != nil:
			typ = model.AssistBoth
		case knock != nil:
			typ = model.AssistKnockdown
		}
		if weapon == "" && knock != nil {
			weapon = knock.Weapon
		}

		var pct float64
		if totalDamage > 0 {
			pct = playerDamage / totalDamage * 100
		}
		assists = append(assists, model.AssistInfo{
			Assister:         player,
			Victim:           k.Victim.Name,
			Killer:           model.NameOf(killer),
			KillTime:         k.At,
			Damage:           playerDamage,
			DamagePercentage: pct,
			Type:             typ,
			Weapon:           weapons.Name(weapon),
		})
	}
	return assists
}
