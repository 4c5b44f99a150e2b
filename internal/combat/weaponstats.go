package combat

import (
	"sort"

	"github.com/pable/go-pubg-coach/internal/model"
	"github.com/pable/go-pubg-coach/internal/weapons"
)

// WeaponInputs are one player's event streams that feed weapon stats.
type WeaponInputs struct {
	Kills      []model.Kill
	Knockdowns []model.Knockdown
	Damages    []model.TakeDamage // damage dealt by the player
	FireCounts []model.WeaponFireCount
	Attacks    []model.Attack
}

type weaponAccum struct {
	kills, knockdowns int
	damage            float64
	hits              int
	shots             int
	attackShots       int
	longest           float64
}

// WeaponStats folds kills, knockdowns, damage and fire counts into one
// accumulator per canonical weapon name. When a weapon has no fire-count
// events, weapon attacks stand in for shots fired. The "Unknown Weapon"
// bucket is dropped and the result is sorted by kills, descending.
func WeaponStats(in WeaponInputs) []model.WeaponStats {
	accums := make(map[string]*weaponAccum)
	get := func(code string) *weaponAccum {
		name := weapons.Name(code)
		a := accums[name]
		if a == nil {
			a = &weaponAccum{}
			accums[name] = a
		}
		return a
	}

	for _, k := range in.Kills {
		a := get(k.Weapon)
		a.kills++
		if m := k.Distance / 100; m > a.longest {
			a.longest = m
		}
	}
	for _, kd := range in.Knockdowns {
		get(kd.Weapon).knockdowns++
	}
	for _, d := range in.Damages {
		a := get(d.Weapon)
		a.damage += d.Damage
		a.hits++
	}
	for _, fc := range in.FireCounts {
		get(fc.Weapon).shots += fc.FireCount
	}
	for _, at := range in.Attacks {
		if at.AttackType != "Weapon" {
			continue
		}
		n := at.FireCount
		if n <= 0 {
			n = 1
		}
		get(at.Weapon).attackShots += n
	}

	out := []model.WeaponStats{}
	for name, a := range accums {
		if name == model.UnknownWeapon {
			continue
		}
		shots := a.shots
		if shots == 0 {
			shots = a.attackShots
		}
		out = append(out, model.WeaponStats{
			Weapon:      name,
			Category:    weapons.Category(name),
			Kills:       a.kills,
			Knockdowns:  a.knockdowns,
			DamageDealt: a.damage,
			ShotsFired:  shots,
			Hits:        a.hits,
			LongestKill: a.longest,
			Accuracy:    pct(a.hits, shots),
			Lethality:   pct(a.kills, a.hits),
			Efficiency:  pct(a.kills, shots),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kills != out[j].Kills {
			return out[i].Kills > out[j].Kills
		}
		if out[i].DamageDealt != out[j].DamageDealt {
			return out[i].DamageDealt > out[j].DamageDealt
		}
		return out[i].Weapon < out[j].Weapon
	})
	return out
}

// pct returns num/den*100, or 0 when den is 0.
func pct(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}
