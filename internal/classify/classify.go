package classify

import (
	"sort"

	"github.com/pable/go-pubg-coach/internal/model"
)

// Relevant reports whether the analysis reads events of kind k.
func Relevant(k model.Kind) bool {
	switch k {
	case model.KindKill, model.KindKnockdown, model.KindTakeDamage, model.KindAttack,
		model.KindRevive, model.KindPosition, model.KindZoneUpdate, model.KindItemPickup,
		model.KindUseItem, model.KindVehicleRide, model.KindWeaponFireCount:
		return true
	default:
		return false
	}
}

// Participants returns every player name referenced by the event's role
// fields (actor, victim, reviver, knockdown maker, finisher). Absent roles
// are omitted.
func Participants(ev model.Event) []string {
	var chars []*model.Character
	switch e := ev.(type) {
	case model.Kill:
		chars = []*model.Character{e.Killer, e.Victim, e.Finisher, e.DBNOMaker}
	case model.Knockdown:
		chars = []*model.Character{e.Attacker, e.Victim}
	case model.TakeDamage:
		chars = []*model.Character{e.Attacker, e.Victim}
	case model.Attack:
		chars = []*model.Character{e.Attacker}
	case model.Revive:
		chars = []*model.Character{e.Reviver, e.Victim}
	case model.Position:
		chars = []*model.Character{e.Character}
	case model.ItemPickup:
		chars = []*model.Character{e.Character}
	case model.UseItem:
		chars = []*model.Character{e.Character}
	case model.VehicleRide:
		chars = []*model.Character{e.Character}
	case model.WeaponFireCount:
		chars = []*model.Character{e.Character}
	case model.ZoneUpdate:
		return nil
	}
	var names []string
	for _, c := range chars {
		if c != nil && c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

// Filter keeps relevant events that reference at least one roster player.
// Zone updates reference no player but describe the match for everyone, so
// they are always kept. The input slice is not modified.
func Filter(events []model.Event, roster Roster) []model.Event {
	var out []model.Event
	for _, ev := range events {
		if ev == nil || !Relevant(ev.Kind()) {
			continue
		}
		if ev.Kind() == model.KindZoneUpdate {
			out = append(out, ev)
			continue
		}
		for _, name := range Participants(ev) {
			if roster.Contains(name) {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

// Streams holds one time-ascending slice per event kind.
type Streams struct {
	Kills      []model.Kill
	Knockdowns []model.Knockdown
	Damages    []model.TakeDamage
	Attacks    []model.Attack
	Revives    []model.Revive
	Positions  []model.Position
	Zones      []model.ZoneUpdate
	Pickups    []model.ItemPickup
	ItemUses   []model.UseItem
	Rides      []model.VehicleRide
	FireCounts []model.WeaponFireCount
}

// Split sorts a copy of events by timestamp (stable, so equal timestamps keep
// source order) and buckets them by kind.
func Split(events []model.Event) Streams {
	sorted := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if ev != nil {
			sorted = append(sorted, ev)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time().Before(sorted[j].Time())
	})

	var s Streams
	for _, ev := range sorted {
		switch e := ev.(type) {
		case model.Kill:
			s.Kills = append(s.Kills, e)
		case model.Knockdown:
			s.Knockdowns = append(s.Knockdowns, e)
		case model.TakeDamage:
			s.Damages = append(s.Damages, e)
		case model.Attack:
			s.Attacks = append(s.Attacks, e)
		case model.Revive:
			s.Revives = append(s.Revives, e)
		case model.Position:
			s.Positions = append(s.Positions, e)
		case model.ZoneUpdate:
			s.Zones = append(s.Zones, e)
		case model.ItemPickup:
			s.Pickups = append(s.Pickups, e)
		case model.UseItem:
			s.ItemUses = append(s.ItemUses, e)
		case model.VehicleRide:
			s.Rides = append(s.Rides, e)
		case model.WeaponFireCount:
			s.FireCounts = append(s.FireCounts, e)
		}
	}
	return s
}
