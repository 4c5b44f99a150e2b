package telemetry

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/geo/r3"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-pubg-coach/internal/model"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// ---- Wire format ----

type wireLocation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type wireCharacter struct {
	Name      string       `json:"name"`
	TeamID    int          `json:"teamId"`
	Health    float64      `json:"health"`
	Location  wireLocation `json:"location"`
	Ranking   int          `json:"ranking"`
	AccountID string       `json:"accountId"`
}

type wireDamageInfo struct {
	DamageReason       string  `json:"damageReason"`
	DamageTypeCategory string  `json:"damageTypeCategory"`
	DamageCauserName   string  `json:"damageCauserName"`
	Distance           float64 `json:"distance"`
}

type wireItem struct {
	ItemID      string `json:"itemId"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
}

type wireVehicle struct {
	VehicleType string `json:"vehicleType"`
	VehicleID   string `json:"vehicleId"`
}

type wireGameState struct {
	ElapsedTime              float64      `json:"elapsedTime"`
	NumAliveTeams            int          `json:"numAliveTeams"`
	SafetyZonePosition       wireLocation `json:"safetyZonePosition"`
	SafetyZoneRadius         float64      `json:"safetyZoneRadius"`
	PoisonGasWarningPosition wireLocation `json:"poisonGasWarningPosition"`
	PoisonGasWarningRadius   float64      `json:"poisonGasWarningRadius"`
	RedZonePosition          wireLocation `json:"redZonePosition"`
	RedZoneRadius            float64      `json:"redZoneRadius"`
}

// wireEvent is the union of every field we read from any event kind.
type wireEvent struct {
	T string    `json:"_T"`
	D time.Time `json:"_D"`

	AttackID int64 `json:"attackId"`
	DBNOID   int64 `json:"dBNOId"`

	Killer    *wireCharacter `json:"killer"`
	Victim    *wireCharacter `json:"victim"`
	Finisher  *wireCharacter `json:"finisher"`
	DBNOMaker *wireCharacter `json:"dBNOMaker"`
	Attacker  *wireCharacter `json:"attacker"`
	Reviver   *wireCharacter `json:"reviver"`
	Character *wireCharacter `json:"character"`

	KillerDamageInfo   *wireDamageInfo `json:"killerDamageInfo"`
	DamageTypeCategory string          `json:"damageTypeCategory"`
	DamageReason       string          `json:"damageReason"`
	DamageCauserName   string          `json:"damageCauserName"`
	Distance           float64         `json:"distance"`
	Damage             float64         `json:"damage"`
	VictimWeapon       string          `json:"victimWeapon"`
	IsSuicide          bool            `json:"isSuicide"`

	AttackType           string    `json:"attackType"`
	Weapon               *wireItem `json:"weapon"`
	FireWeaponStackCount int       `json:"fireWeaponStackCount"`

	ElapsedTime     float64        `json:"elapsedTime"`
	NumAlivePlayers int            `json:"numAlivePlayers"`
	GameState       *wireGameState `json:"gameState"`

	Item      *wireItem    `json:"item"`
	Vehicle   *wireVehicle `json:"vehicle"`
	SeatIndex int          `json:"seatIndex"`

	WeaponID  string `json:"weaponId"`
	FireCount int    `json:"fireCount"`
}

// ---- Decoding ----

// LoadFile reads and decodes a telemetry file, compressed or not.
func LoadFile(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fetchErr(path, err)
	}
	defer f.Close()
	events, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return events, nil
}

// Decode parses a telemetry JSON array from r. gzip and zstd payloads are
// detected by their magic bytes. Unknown event kinds are skipped; any
// malformed element fails the whole payload.
func Decode(r io.Reader) ([]model.Event, error) {
	src, closeFn, err := decompress(r)
	if err != nil {
		return nil, fetchErr("decompress", err)
	}
	defer closeFn()

	dec := json.NewDecoder(src)
	tok, err := dec.Token()
	if err != nil {
		return nil, fetchErr("decode", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fetchErr("decode", fmt.Errorf("expected JSON array, got %v", tok))
	}

	var out []model.Event
	for i := 0; dec.More(); i++ {
		var w wireEvent
		if err := dec.Decode(&w); err != nil {
			return nil, fetchErr("decode", fmt.Errorf("event %d: %w", i, err))
		}
		if ev := w.toModel(); ev != nil {
			out = append(out, ev)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fetchErr("decode", err)
	}
	return out, nil
}

// DecodeBytes is Decode over an in-memory payload.
func DecodeBytes(b []byte) ([]model.Event, error) {
	return Decode(bytes.NewReader(b))
}

func decompress(r io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return dec, dec.Close, nil
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	default:
		return br, func() {}, nil
	}
}

func (l wireLocation) vec() r3.Vector { return r3.Vector{X: l.X, Y: l.Y, Z: l.Z} }

func (c *wireCharacter) toModel() *model.Character {
	if c == nil {
		return nil
	}
	return &model.Character{
		Name:      c.Name,
		TeamID:    c.TeamID,
		Location:  c.Location.vec(),
		Health:    c.Health,
		Ranking:   c.Ranking,
		AccountID: c.AccountID,
	}
}

func (it *wireItem) id() string {
	if it == nil {
		return ""
	}
	return it.ItemID
}

// toModel converts the wire record to its event variant, or nil for kinds
// the analysis does not read.
func (w *wireEvent) toModel() model.Event {
	h := model.Header{At: w.D}
	switch w.T {
	case "LogPlayerKillV2", "LogPlayerKill":
		k := model.Kill{
			Header:         h,
			AttackID:       w.AttackID,
			DBNOID:         w.DBNOID,
			Killer:         w.Killer.toModel(),
			Victim:         w.Victim.toModel(),
			Finisher:       w.Finisher.toModel(),
			DBNOMaker:      w.DBNOMaker.toModel(),
			DamageCategory: w.DamageTypeCategory,
			DamageReason:   w.DamageReason,
			Weapon:         w.DamageCauserName,
			Distance:       w.Distance,
			VictimWeapon:   w.VictimWeapon,
			IsSuicide:      w.IsSuicide,
		}
		if di := w.KillerDamageInfo; di != nil {
			k.DamageCategory = di.DamageTypeCategory
			k.DamageReason = di.DamageReason
			k.Weapon = di.DamageCauserName
			k.Distance = di.Distance
		}
		return k
	case "LogPlayerMakeGroggy":
		return model.Knockdown{
			Header:         h,
			AttackID:       w.AttackID,
			DBNOID:         w.DBNOID,
			Attacker:       w.Attacker.toModel(),
			Victim:         w.Victim.toModel(),
			DamageCategory: w.DamageTypeCategory,
			DamageReason:   w.DamageReason,
			Weapon:         w.DamageCauserName,
			Distance:       w.Distance,
		}
	case "LogPlayerTakeDamage":
		return model.TakeDamage{
			Header:         h,
			AttackID:       w.AttackID,
			Attacker:       w.Attacker.toModel(),
			Victim:         w.Victim.toModel(),
			DamageCategory: w.DamageTypeCategory,
			DamageReason:   w.DamageReason,
			Weapon:         w.DamageCauserName,
			Damage:         w.Damage,
		}
	case "LogPlayerAttack":
		return model.Attack{
			Header:     h,
			AttackID:   w.AttackID,
			Attacker:   w.Attacker.toModel(),
			AttackType: w.AttackType,
			Weapon:     w.Weapon.id(),
			FireCount:  w.FireWeaponStackCount,
		}
	case "LogPlayerRevive":
		return model.Revive{
			Header:  h,
			DBNOID:  w.DBNOID,
			Reviver: w.Reviver.toModel(),
			Victim:  w.Victim.toModel(),
		}
	case "LogPlayerPosition":
		return model.Position{
			Header:          h,
			Character:       w.Character.toModel(),
			ElapsedTime:     w.ElapsedTime,
			NumAlivePlayers: w.NumAlivePlayers,
		}
	case "LogGameStatePeriodic":
		z := model.ZoneUpdate{Header: h}
		if gs := w.GameState; gs != nil {
			z.ElapsedTime = gs.ElapsedTime
			z.NumAliveTeams = gs.NumAliveTeams
			z.SafeZone = model.Circle{Center: gs.SafetyZonePosition.vec(), Radius: gs.SafetyZoneRadius}
			z.Warning = model.Circle{Center: gs.PoisonGasWarningPosition.vec(), Radius: gs.PoisonGasWarningRadius}
			z.RedZone = model.Circle{Center: gs.RedZonePosition.vec(), Radius: gs.RedZoneRadius}
		}
		return z
	case "LogItemPickup", "LogItemUse":
		var it wireItem
		if w.Item != nil {
			it = *w.Item
		}
		if w.T == "LogItemUse" {
			return model.UseItem{Header: h, Character: w.Character.toModel(),
				ItemID: it.ItemID, Category: it.Category, SubCategory: it.SubCategory}
		}
		return model.ItemPickup{Header: h, Character: w.Character.toModel(),
			ItemID: it.ItemID, Category: it.Category, SubCategory: it.SubCategory}
	case "LogVehicleRide":
		v := model.VehicleRide{Header: h, Character: w.Character.toModel(), SeatIndex: w.SeatIndex}
		if w.Vehicle != nil {
			v.VehicleType = w.Vehicle.VehicleType
			v.VehicleID = w.Vehicle.VehicleID
		}
		return v
	case "LogWeaponFireCount":
		return model.WeaponFireCount{
			Header:    h,
			Character: w.Character.toModel(),
			Weapon:    w.WeaponID,
			FireCount: w.FireCount,
		}
	default:
		return nil
	}
}
