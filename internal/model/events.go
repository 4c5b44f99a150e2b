package model

import (
	"time"

	"github.com/golang/geo/r3"
)

// Kind identifies the variant of a telemetry event.
type Kind int

const (
	KindUnknown Kind = iota
	KindKill
	KindKnockdown
	KindTakeDamage
	KindAttack
	KindRevive
	KindPosition
	KindZoneUpdate
	KindItemPickup
	KindUseItem
	KindVehicleRide
	KindWeaponFireCount
)

func (k Kind) String() string {
	switch k {
	case KindKill:
		return "Kill"
	case KindKnockdown:
		return "Knockdown"
	case KindTakeDamage:
		return "TakeDamage"
	case KindAttack:
		return "Attack"
	case KindRevive:
		return "Revive"
	case KindPosition:
		return "Position"
	case KindZoneUpdate:
		return "ZoneUpdate"
	case KindItemPickup:
		return "ItemPickup"
	case KindUseItem:
		return "UseItem"
	case KindVehicleRide:
		return "VehicleRide"
	case KindWeaponFireCount:
		return "WeaponFireCount"
	default:
		return "Unknown"
	}
}

// UnknownPlayer is reported for a missing or unnamed character reference.
const UnknownPlayer = "Unknown Player"

// Character is a player snapshot embedded in an event. Location is in
// centimetres, as recorded by the game.
type Character struct {
	Name      string
	TeamID    int
	Location  r3.Vector
	Health    float64
	Ranking   int
	AccountID string
}

// NameOf returns the character's name, or UnknownPlayer for nil/empty.
func NameOf(c *Character) string {
	if c == nil || c.Name == "" {
		return UnknownPlayer
	}
	return c.Name
}

// LocationOf returns the character's location, or the zero vector for nil.
func LocationOf(c *Character) r3.Vector {
	if c == nil {
		return r3.Vector{}
	}
	return c.Location
}

// Event is one timestamped telemetry record. The concrete type is one of the
// structs below; switch on the type (or Kind) to access variant fields.
type Event interface {
	Kind() Kind
	Time() time.Time
}

// Header carries the fields common to every event.
type Header struct {
	At time.Time
}

// Time returns the event timestamp.
func (h Header) Time() time.Time { return h.At }

// Kill is a final elimination.
type Kill struct {
	Header
	AttackID       int64
	DBNOID         int64
	Killer         *Character
	Victim         *Character
	Finisher       *Character
	DBNOMaker      *Character
	DamageCategory string
	DamageReason   string
	Weapon         string  // internal weapon code
	Distance       float64 // cm
	VictimWeapon   string
	IsSuicide      bool
}

func (Kill) Kind() Kind { return KindKill }

// CreditedKiller is the character the kill counts for: the killer, or the
// finisher when the killer is absent.
func (k Kill) CreditedKiller() *Character {
	if k.Killer != nil {
		return k.Killer
	}
	return k.Finisher
}

// Knockdown puts a victim into the down-but-not-out state.
type Knockdown struct {
	Header
	AttackID       int64
	DBNOID         int64
	Attacker       *Character
	Victim         *Character
	DamageCategory string
	DamageReason   string
	Weapon         string
	Distance       float64 // cm
}

func (Knockdown) Kind() Kind { return KindKnockdown }

// TakeDamage is one hit landed on a victim. Attacker is nil for environmental
// damage such as the blue zone.
type TakeDamage struct {
	Header
	AttackID       int64
	Attacker       *Character
	Victim         *Character
	DamageCategory string
	DamageReason   string
	Weapon         string
	Damage         float64
}

func (TakeDamage) Kind() Kind { return KindTakeDamage }

// Attack is a trigger pull or throw.
type Attack struct {
	Header
	AttackID   int64
	Attacker   *Character
	AttackType string
	Weapon     string
	FireCount  int
}

func (Attack) Kind() Kind { return KindAttack }

// Revive brings a knocked player back up.
type Revive struct {
	Header
	DBNOID  int64
	Reviver *Character
	Victim  *Character
}

func (Revive) Kind() Kind { return KindRevive }

// Position is a periodic location sample for one player.
type Position struct {
	Header
	Character       *Character
	ElapsedTime     float64 // seconds since match start
	NumAlivePlayers int
}

func (Position) Kind() Kind { return KindPosition }

// Circle is a zone on the map. Center is in centimetres, Radius too.
type Circle struct {
	Center r3.Vector
	Radius float64
}

// ZoneUpdate is a periodic game-state snapshot. SafeZone is the current
// playable area, Warning the next announced safe zone.
type ZoneUpdate struct {
	Header
	ElapsedTime   float64
	NumAliveTeams int
	SafeZone      Circle
	Warning       Circle
	RedZone       Circle
}

func (ZoneUpdate) Kind() Kind { return KindZoneUpdate }

// ItemPickup records a looted item.
type ItemPickup struct {
	Header
	Character   *Character
	ItemID      string
	Category    string
	SubCategory string
}

func (ItemPickup) Kind() Kind { return KindItemPickup }

// UseItem records a consumed item (heal, boost, ...).
type UseItem struct {
	Header
	Character   *Character
	ItemID      string
	Category    string
	SubCategory string
}

func (UseItem) Kind() Kind { return KindUseItem }

// VehicleRide records a player entering a vehicle.
type VehicleRide struct {
	Header
	Character   *Character
	VehicleType string
	VehicleID   string
	SeatIndex   int
}

func (VehicleRide) Kind() Kind { return KindVehicleRide }

// WeaponFireCount reports shots fired with one weapon.
type WeaponFireCount struct {
	Header
	Character *Character
	Weapon    string
	FireCount int
}

func (WeaponFireCount) Kind() Kind { return KindWeaponFireCount }
