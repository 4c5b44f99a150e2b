package tactics

import (
	"math"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-pubg-coach/internal/classify"
	"github.com/pable/go-pubg-coach/internal/model"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func at(sec float64) model.Header {
	return model.Header{At: t0.Add(time.Duration(sec * float64(time.Second)))}
}

// pc builds a character at x, y, z (cm).
func pc(name string, x, y, z float64) *model.Character {
	return &model.Character{Name: name, Location: r3.Vector{X: x, Y: y, Z: z}}
}

func pos(sec float64, name string, x, y float64) model.Position {
	return model.Position{Header: at(sec), Character: pc(name, x, y, 0)}
}

func newMatch(roster []string, rank int, events ...model.Event) Match {
	r := classify.NewRoster(roster)
	all := classify.Split(events)
	team := classify.Split(classify.Filter(events, r))
	return Match{Roster: r, Team: &team, All: &all, Start: t0, TeamRank: rank}
}

func mistakeTypes(ms []model.CriticalMistake) []model.MistakeType {
	var out []model.MistakeType
	for _, m := range ms {
		out = append(out, m.Type)
	}
	return out
}

// ---- Zones ----

func TestPhases_Table(t *testing.T) {
	ps := Phases()
	require.Len(t, ps, 8)
	want := []struct {
		wait, shrink int
		dps          float64
	}{
		{120, 300, 0.4}, {90, 140, 0.6}, {90, 90, 0.8}, {60, 60, 1.0},
		{60, 40, 3.0}, {45, 30, 5.0}, {30, 30, 7.0}, {30, 30, 9.0},
	}
	for i, w := range want {
		assert.Equal(t, i+1, ps[i].Number)
		assert.Equal(t, time.Duration(w.wait)*time.Second, ps[i].Wait, "phase %d wait", i+1)
		assert.Equal(t, time.Duration(w.shrink)*time.Second, ps[i].Shrink, "phase %d shrink", i+1)
		assert.Equal(t, w.dps, ps[i].DPS, "phase %d dps", i+1)
	}

	ps[0].DPS = 99
	assert.Equal(t, 0.4, PhaseFor(1).DPS, "Phases must return a copy")
	assert.Equal(t, 1, PhaseFor(0).Number)
	assert.Equal(t, 8, PhaseFor(12).Number)
}

func TestTransitions(t *testing.T) {
	zones := []model.ZoneUpdate{
		{Header: at(0)},
		{Header: at(10), Warning: model.Circle{Radius: 100000}},
		{Header: at(20), Warning: model.Circle{Radius: 100000.5}},
		{Header: at(30), Warning: model.Circle{Radius: 60000}},
	}
	ts := Transitions(zones)
	require.Len(t, ts, 2)
	assert.Equal(t, 1, ts[0].Number)
	assert.Equal(t, t0.Add(10*time.Second), ts[0].At)
	assert.Equal(t, t0.Add(30*time.Second), ts[0].End)
	assert.Equal(t, 2, ts[1].Number)
	assert.True(t, ts[1].End.IsZero())
}

// ---- Engagement ----

func engagementEvents() []model.Event {
	events := []model.Event{
		model.Knockdown{Header: at(10), DBNOID: 7, AttackID: 1,
			Attacker: pc("me", 0, 0, 1000), Victim: pc("e1", 100, 0, 900), Weapon: "WeapHK416_C"},
		model.Kill{Header: at(15), DBNOID: 7, AttackID: 2,
			Killer: pc("me", 0, 0, 1000), Victim: pc("e1", 100, 0, 900), Weapon: "WeapHK416_C", Distance: 5000},
		model.Kill{Header: at(20), AttackID: 9,
			Killer: pc("mate", 0, 0, 0), Victim: pc("e2", 0, 0, 0), Weapon: "WeapAK47_C", Distance: 3000},
		model.Kill{Header: at(100), AttackID: 11,
			Killer: pc("e3", 0, 0, 0), Victim: &model.Character{Name: "me"}, VictimWeapon: "WeapHK416_C", Distance: 30000},
		model.WeaponFireCount{Header: at(90), Character: pc("me", 0, 0, 0), Weapon: "WeapHK416_C", FireCount: 100},
	}
	for i := 0; i < 5; i++ {
		events = append(events, model.TakeDamage{Header: at(11 + float64(i)/2),
			Attacker: pc("me", 0, 0, 0), Victim: pc("e1", 0, 0, 0), Weapon: "WeapHK416_C", Damage: 20})
	}
	return events
}

func TestEngagement_Outcomes(t *testing.T) {
	ea := Engagement(newMatch([]string{"me", "mate"}, 5, engagementEvents()...))

	assert.Equal(t, 3, ea.TotalEngagements, "knockdown and kill of one exchange count once")
	assert.Equal(t, 3, ea.WonEngagements)
	assert.Equal(t, 1, ea.LostEngagements)
	assert.InDelta(t, 75.0, ea.WinRate, 1e-9)
	assert.InDelta(t, 40.0, ea.AvgEngagementDistance, 1e-9)
	assert.Equal(t, 1, ea.Positioning.HighGroundAdvantage)
	assert.Equal(t, 1, ea.UnfavorableRangeDeaths)
	assert.Zero(t, ea.ThirdPartySituations)

	// No teammate positions: estimate round(0.3 * 1 death) = 0.
	assert.Zero(t, ea.Positioning.OverExtensions)
	assert.True(t, ea.Positioning.OverExtensionEstimated)

	require.Len(t, ea.Mistakes, 1)
	assert.Equal(t, model.MistakeEngagement, ea.Mistakes[0].Type)
	assert.Equal(t, model.ImpactMedium, ea.Mistakes[0].Impact)

	assert.InDelta(t, 63.5, ea.Score, 1e-9)
}

func TestEngagement_WeaponEffectiveness(t *testing.T) {
	ea := Engagement(newMatch([]string{"me", "mate"}, 5, engagementEvents()...))

	require.Len(t, ea.WeaponEffectiveness, 2)
	akm, m416 := ea.WeaponEffectiveness[0], ea.WeaponEffectiveness[1]

	assert.Equal(t, "AKM", akm.Weapon)
	assert.Zero(t, akm.Accuracy)
	assert.InDelta(t, 30.0, akm.AvgDistance, 1e-9)
	assert.Equal(t, RangeOK, akm.Recommendation)

	assert.Equal(t, "M416", m416.Weapon)
	assert.Equal(t, 100, m416.ShotsFired)
	assert.Equal(t, 5, m416.Hits)
	assert.InDelta(t, 5.0, m416.Accuracy, 1e-9)
	assert.Contains(t, m416.Recommendation, "recoil")
}

func TestEngagement_LowWinRate(t *testing.T) {
	var events []model.Event
	for i := 0; i < 4; i++ {
		events = append(events, model.Kill{Header: at(float64(100 * i)), AttackID: int64(i + 1),
			Killer: pc("enemy", 0, 0, 0), Victim: &model.Character{Name: "me"}})
	}
	ea := Engagement(newMatch([]string{"me"}, 80, events...))

	assert.Equal(t, 4, ea.TotalEngagements)
	assert.Zero(t, ea.WinRate)
	require.NotEmpty(t, ea.Mistakes)
	assert.Equal(t, model.ImpactHigh, ea.Mistakes[0].Impact)
	// Solo roster: no teammate data, round(0.3 * 4) = 1.
	assert.Equal(t, 1, ea.Positioning.OverExtensions)
	assert.True(t, ea.Positioning.OverExtensionEstimated)
}

func TestEngagement_ThirdParty(t *testing.T) {
	death := model.Kill{Header: at(60), AttackID: 1, Killer: pc("a", 0, 0, 0), Victim: pc("me", 10000, 10000, 0)}
	nearKill := model.Kill{Header: at(30), AttackID: 2, Killer: pc("b", 0, 0, 0), Victim: pc("x", 15000, 10000, 0)}
	nearKnock := model.Knockdown{Header: at(90), AttackID: 3, Attacker: pc("c", 0, 0, 0), Victim: pc("y", 10000, 20000, 0)}
	farKill := model.Kill{Header: at(61), AttackID: 4, Killer: pc("d", 0, 0, 0), Victim: pc("z", 900000, 0, 0)}
	lateKill := model.Kill{Header: at(121), AttackID: 5, Killer: pc("d", 0, 0, 0), Victim: pc("w", 10000, 10000, 0)}

	ea := Engagement(newMatch([]string{"me"}, 20, death, nearKill, nearKnock, farKill, lateKill))
	assert.Equal(t, 1, ea.ThirdPartySituations)

	ea = Engagement(newMatch([]string{"me"}, 20, death, nearKill, farKill, lateKill))
	assert.Zero(t, ea.ThirdPartySituations)
}

func TestEngagement_OverExtensionFromPositions(t *testing.T) {
	death := model.Kill{Header: at(100), AttackID: 1, Killer: pc("a", 0, 0, 0), Victim: pc("me", 1000, 1000, 0)}

	far := newMatch([]string{"me", "mate"}, 20, death,
		pos(90, "me", 1000, 1000), pos(95, "mate", 50000, 1000))
	ea := Engagement(far)
	assert.Equal(t, 1, ea.Positioning.OverExtensions)
	assert.False(t, ea.Positioning.OverExtensionEstimated)

	nearby := newMatch([]string{"me", "mate"}, 20, death,
		pos(90, "me", 1000, 1000), pos(95, "mate", 5000, 1000))
	ea = Engagement(nearby)
	assert.Zero(t, ea.Positioning.OverExtensions)
	assert.False(t, ea.Positioning.OverExtensionEstimated)
}

// ---- Positioning ----

func zoneEvents() []model.Event {
	return []model.Event{
		model.ZoneUpdate{Header: at(0), SafeZone: model.Circle{Radius: 300000}},
		model.ZoneUpdate{Header: at(60), SafeZone: model.Circle{Radius: 300000},
			Warning: model.Circle{Center: r3.Vector{}, Radius: 100000}},
	}
}

func rotatingTrack(name string) []model.Event {
	return []model.Event{
		pos(50, name, 200000, 0),
		pos(70, name, 200000, 0),
		pos(100, name, 190000, 0),
		pos(130, name, 150000, 0),
		pos(160, name, 95000, 0),
	}
}

func TestPositioning_OnTimeRotation(t *testing.T) {
	events := append(zoneEvents(), rotatingTrack("me")...)
	events = append(events,
		model.TakeDamage{Header: at(300), Victim: pc("me", 0, 0, 0), DamageCategory: "Damage_BlueZone", Damage: 60},
		model.TakeDamage{Header: at(310), Victim: pc("me", 0, 0, 0), DamageCategory: "Damage_BlueZone", Damage: 50},
	)
	pa := Positioning(newMatch([]string{"me"}, 60, events...))

	ra := pa.Rotation
	assert.Equal(t, 1, ra.Transitions)
	assert.Equal(t, 1, ra.OnTime)
	assert.Zero(t, ra.Late)
	assert.Zero(t, ra.Borderline)
	assert.InDelta(t, 100.0, ra.AvgRotationTime, 1e-9)
	assert.Equal(t, 1, ra.RoutesMeasured)
	assert.InDelta(t, 100.0, ra.RouteEfficiency, 1e-9)

	assert.InDelta(t, 110.0, pa.BlueZoneDamage, 1e-9)
	assert.InDelta(t, 275.0, pa.BlueZoneTime, 1e-9)
	assert.Zero(t, pa.VehicleUsage)

	fc := pa.FinalCircle
	assert.Equal(t, model.FinalCircleEdge, fc.Style)
	assert.InDelta(t, 1000.0, fc.ZoneRadius, 1e-9)
	assert.InDelta(t, 0.95, fc.AvgDistanceRatio, 1e-9)
	assert.Equal(t, 1, fc.PlayersMeasured)

	assert.Equal(t, []model.MistakeType{
		model.MistakeZoneManagement, // blue zone
		model.MistakeZoneManagement, // vehicles
		model.MistakePositioning,    // rank
	}, mistakeTypes(pa.Mistakes))
	assert.Equal(t, model.ImpactMedium, pa.Mistakes[0].Impact)
	assert.Equal(t, model.ImpactLow, pa.Mistakes[1].Impact)
	assert.Equal(t, model.ImpactHigh, pa.Mistakes[2].Impact)

	assert.InDelta(t, 25.0, pa.Score, 1e-9)
}

func TestPositioning_StragglerMakesRotationLate(t *testing.T) {
	events := append(zoneEvents(), rotatingTrack("me")...)
	events = append(events,
		pos(50, "mate", -200000, 0),
		pos(70, "mate", -200000, 0),
		pos(200, "mate", -200000, 0),
	)
	pa := Positioning(newMatch([]string{"me", "mate"}, 5, events...))

	assert.Equal(t, 1, pa.Rotation.Late)
	assert.Zero(t, pa.Rotation.OnTime)
	assert.Equal(t, 1, pa.Rotation.RoutesMeasured)
}

func TestPositioning_RepeatedLateRotations(t *testing.T) {
	events := []model.Event{
		model.ZoneUpdate{Header: at(60), Warning: model.Circle{Radius: 100000}},
		model.ZoneUpdate{Header: at(300), Warning: model.Circle{Radius: 50000}},
		model.ZoneUpdate{Header: at(500), Warning: model.Circle{Radius: 20000}},
	}
	for _, sec := range []float64{50, 70, 310, 510, 600} {
		events = append(events, pos(sec, "me", 200000, 0))
	}
	pa := Positioning(newMatch([]string{"me"}, 20, events...))

	assert.Equal(t, 3, pa.Rotation.Transitions)
	assert.Equal(t, 3, pa.Rotation.Late)
	assert.Zero(t, pa.Rotation.RoutesMeasured)

	require.NotEmpty(t, pa.Mistakes)
	late := pa.Mistakes[0]
	assert.Equal(t, model.MistakeZoneManagement, late.Type)
	assert.Equal(t, model.ImpactHigh, late.Impact)
	assert.Equal(t, 3, late.Count)
	assert.Equal(t, "Late on 3 of 3 zone rotations", late.Description)
}

func TestPositioning_DetourRoute(t *testing.T) {
	events := append(zoneEvents(),
		pos(50, "me", 200000, 0),
		pos(70, "me", 200000, 0),
		pos(100, "me", 200000, 200000),
		pos(160, "me", 95000, 0),
	)
	pa := Positioning(newMatch([]string{"me"}, 20, events...))

	ra := pa.Rotation
	assert.Equal(t, 1, ra.OnTime)
	assert.Equal(t, 1, ra.RoutesMeasured)
	want := 105000 / (200000 + math.Hypot(105000, 200000)) * 100
	assert.InDelta(t, want, ra.RouteEfficiency, 1e-9)

	assert.Equal(t, []model.MistakeType{
		model.MistakeZoneManagement, // route
		model.MistakeZoneManagement, // vehicles
	}, mistakeTypes(pa.Mistakes))
	assert.Equal(t, model.ImpactMedium, pa.Mistakes[0].Impact)
	assert.Equal(t, "Rotation routes were 25% efficient", pa.Mistakes[0].Description)
}

func TestPositioning_Compounds(t *testing.T) {
	var events []model.Event
	for i := 0; i < 7; i++ {
		events = append(events, pos(float64(10*i), "me", float64(i*10), 0))
	}
	for i := 0; i < 3; i++ {
		events = append(events, pos(float64(100+10*i), "me", 50000, 0))
	}
	pa := Positioning(newMatch([]string{"me"}, 5, events...))

	require.Len(t, pa.Compounds, 1)
	assert.Equal(t, 7, pa.Compounds[0].Samples)
	assert.Equal(t, 70*time.Second, pa.Compounds[0].HoldTime)
	assert.InDelta(t, 30.0, pa.Compounds[0].Center.X, 1e-9)
	assert.Equal(t, model.FinalCircleUnknown, pa.FinalCircle.Style)
}

// ---- Looting ----

func TestLooting(t *testing.T) {
	events := []model.Event{
		model.ItemPickup{Header: at(30), Character: pc("me", 0, 0, 0), Category: "Ammunition"},
		model.ItemPickup{Header: at(200), Character: pc("me", 0, 0, 0), Category: "Weapon", ItemID: "Item_Weapon_HK416_C"},
		model.ItemPickup{Header: at(210), Character: pc("me", 0, 0, 0), Category: "Attachment"},
		model.ItemPickup{Header: at(220), Character: pc("stranger", 0, 0, 0), Category: "Weapon"},
		model.UseItem{Header: at(300), Character: pc("me", 0, 0, 0), Category: "Use", SubCategory: "Heal"},
		model.UseItem{Header: at(310), Character: pc("me", 0, 0, 0), Category: "Use", SubCategory: "Boost"},
	}
	la := Looting(newMatch([]string{"me"}, 5, events...))

	assert.Equal(t, 3, la.ItemsPickedUp)
	assert.Equal(t, 1, la.WeaponsPickedUp)
	assert.Equal(t, 1, la.AttachmentsPickedUp)
	assert.Equal(t, 1, la.HealsUsed)
	assert.Equal(t, 1, la.BoostsUsed)
	assert.True(t, la.HasWeapon)
	assert.Equal(t, 200*time.Second, la.TimeToFirstWeapon)
	require.Len(t, la.Mistakes, 1)
	assert.Equal(t, model.MistakeLooting, la.Mistakes[0].Type)
	assert.Equal(t, model.ImpactLow, la.Mistakes[0].Impact)
}

func TestLooting_Empty(t *testing.T) {
	la := Looting(newMatch([]string{"me"}, 0))
	assert.False(t, la.HasWeapon)
	assert.Empty(t, la.Mistakes)
	assert.Equal(t, 50.0, la.Score)
}

// ---- Coordination ----

func TestCoordination(t *testing.T) {
	events := []model.Event{
		model.Revive{Header: at(20), Reviver: pc("me", 0, 0, 0), Victim: pc("mate", 0, 0, 0)},
		model.Kill{Header: at(50), Killer: pc("enemy", 0, 0, 0), Victim: pc("mate", 0, 0, 0)},
		model.Kill{Header: at(55), Killer: pc("me", 0, 0, 0), Victim: pc("enemy", 0, 0, 0)},
		pos(0, "me", 0, 0), pos(0, "mate", 30000, 0),
		pos(10, "me", 0, 0), pos(10, "mate", 10000, 0),
	}
	players := []model.PlayerAnalysis{
		{Name: "me", Assists: make([]model.AssistInfo, 2)},
		{Name: "mate"},
	}
	tc := Coordination(newMatch([]string{"me", "mate"}, 5, events...), players)

	assert.Equal(t, 1, tc.Revives)
	assert.Equal(t, 2, tc.Assists)
	assert.Equal(t, 1, tc.TradeKills)
	assert.InDelta(t, 200.0, tc.AvgTeamSpread, 1e-9)
	assert.Empty(t, tc.Mistakes)
	assert.InDelta(t, 61.0, tc.Score, 1e-9)
}

func TestCoordination_Mistakes(t *testing.T) {
	events := []model.Event{
		pos(0, "me", 0, 0), pos(0, "mate", 40000, 0),
	}
	for i := 0; i < 3; i++ {
		events = append(events, model.Knockdown{Header: at(float64(30 * (i + 1))),
			Attacker: pc("enemy", 0, 0, 0), Victim: pc("me", 0, 0, 0)})
	}
	tc := Coordination(newMatch([]string{"me", "mate"}, 5, events...), nil)

	assert.InDelta(t, 400.0, tc.AvgTeamSpread, 1e-9)
	require.Len(t, tc.Mistakes, 2)
	for _, m := range tc.Mistakes {
		assert.Equal(t, model.MistakeTeamCoordination, m.Type)
		assert.Equal(t, model.ImpactMedium, m.Impact)
	}
}

// ---- Mistakes and aggregate ----

func TestRankMistakes(t *testing.T) {
	got := RankMistakes(
		[]model.CriticalMistake{{Description: "low", Impact: model.ImpactLow}, {Description: "high1", Impact: model.ImpactHigh}},
		nil,
		[]model.CriticalMistake{{Description: "medium", Impact: model.ImpactMedium}, {Description: "high2", Impact: model.ImpactHigh}},
	)
	var order []string
	for _, m := range got {
		order = append(order, m.Description)
	}
	assert.Equal(t, []string{"high1", "high2", "medium", "low"}, order)
}

func TestRecommendations(t *testing.T) {
	recs := Recommendations(
		[]model.CriticalMistake{{Recommendation: "a"}, {Recommendation: "b"}, {Recommendation: "a"}},
		[]model.WeaponEffectiveness{{Recommendation: RangeOK}, {Recommendation: "c"}},
	)
	assert.Equal(t, []string{"a", "b", "c"}, recs)
}

func TestAnalyze_Empty(t *testing.T) {
	res := Analyze("m1", newMatch([]string{"me"}, 0), nil)

	assert.Equal(t, "m1", res.MatchID)
	assert.Zero(t, res.Engagement.TotalEngagements)
	assert.Empty(t, res.Engagement.WeaponEffectiveness)
	assert.Zero(t, res.Positioning.Rotation.Transitions)
	assert.Empty(t, res.Positioning.Compounds)
	assert.Zero(t, res.TeamCoordination.Revives)
	assert.NotNil(t, res.CriticalMistakes)
	assert.NotNil(t, res.StrategicRecommendations)
	assert.Empty(t, res.OverallRating)
}
