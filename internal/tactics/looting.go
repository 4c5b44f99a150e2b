package tactics

import (
	"fmt"
	"math"
	"time"

	"github.com/pable/go-pubg-coach/internal/model"
)

// Item categories and sub-categories as recorded on pickups and uses.
const (
	itemWeapon     = "Weapon"
	itemAttachment = "Attachment"
	itemHeal       = "Heal"
	itemBoost      = "Boost"
)

// slowFirstWeapon is how long after the start a first weapon is late.
const slowFirstWeapon = 180 * time.Second

// Looting summarises what the team picked up and consumed, and how quickly
// it armed itself.
func Looting(m Match) model.LootingAnalysis {
	la := model.LootingAnalysis{Mistakes: []model.CriticalMistake{}}

	var firstWeapon time.Time
	for _, p := range m.Team.Pickups {
		if !m.tracked(p.Character) {
			continue
		}
		la.ItemsPickedUp++
		switch p.Category {
		case itemWeapon:
			la.WeaponsPickedUp++
			if firstWeapon.IsZero() {
				firstWeapon = p.At
			}
		case itemAttachment:
			la.AttachmentsPickedUp++
		}
	}
	for _, u := range m.Team.ItemUses {
		if !m.tracked(u.Character) {
			continue
		}
		switch u.SubCategory {
		case itemHeal:
			la.HealsUsed++
		case itemBoost:
			la.BoostsUsed++
		}
	}

	if !firstWeapon.IsZero() {
		la.HasWeapon = true
		if start := m.start(); !start.IsZero() && firstWeapon.After(start) {
			la.TimeToFirstWeapon = firstWeapon.Sub(start)
		}
	}
	if la.HasWeapon && la.TimeToFirstWeapon > slowFirstWeapon {
		la.Mistakes = append(la.Mistakes, model.CriticalMistake{
			Type:           model.MistakeLooting,
			Impact:         model.ImpactLow,
			Description:    fmt.Sprintf("First weapon found after %s", la.TimeToFirstWeapon.Round(time.Second)),
			Recommendation: "Land near buildings with guaranteed spawns and grab the first weapon you see",
			Count:          1,
		})
	}
	la.Score = lootingScore(la)
	return la
}

func lootingScore(la model.LootingAnalysis) float64 {
	if la.ItemsPickedUp == 0 && la.HealsUsed+la.BoostsUsed == 0 {
		return 50
	}
	score := 50.0
	score += math.Min(20, 4*float64(la.WeaponsPickedUp))
	score += math.Min(15, 1.5*float64(la.AttachmentsPickedUp))
	score += math.Min(15, 2*float64(la.HealsUsed+la.BoostsUsed))
	switch {
	case !la.HasWeapon:
		score -= 30
	case la.TimeToFirstWeapon > slowFirstWeapon:
		score -= 15
	}
	return clamp(score)
}
