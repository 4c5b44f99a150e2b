package tactics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/golang/geo/r3"

	"github.com/pable/go-pubg-coach/internal/model"
)

const (
	blueZoneCategory = "Damage_BlueZone"

	// moveThreshold is how far (m) a player must get from where the
	// announcement found them to count as rotating.
	moveThreshold = 50.0

	// Fractions of the phase wait time that split on-time, borderline and
	// late rotations.
	onTimeFraction = 0.6
	lateFraction   = 0.8

	compoundRadius   = 100.0 // m
	compoundMinHold  = 5     // samples; more than this is a held compound
	positionInterval = 10 * time.Second

	finalZones      = 3
	centerRatio     = 0.3
	edgeRatio       = 0.7
	minVehicleRides = 2
	lowRouteScore   = 60.0
	badRank         = 50
)

// Positioning scores the team's zone play: blue-zone damage, rotation timing
// and routes, compounds held, vehicle use and final-circle placement.
func Positioning(m Match) model.PositioningAnalysis {
	var pa model.PositioningAnalysis

	ts := Transitions(m.Team.Zones)

	var blue []model.TakeDamage
	for _, d := range m.Team.Damages {
		if d.DamageCategory == blueZoneCategory && m.tracked(d.Victim) {
			blue = append(blue, d)
			pa.BlueZoneDamage += d.Damage
		}
	}
	pa.BlueZoneTime = blueZoneSeconds(blue, ts)

	tracks := m.tracks()
	pa.Rotation = rotations(ts, tracks)
	pa.Compounds = compounds(m)
	for _, r := range m.Team.Rides {
		if m.tracked(r.Character) {
			pa.VehicleUsage++
		}
	}
	pa.FinalCircle = finalCircle(m.Team.Zones, tracks)

	pa.Mistakes = positioningMistakes(pa, m.TeamRank)
	pa.Score = positioningScore(pa, m.TeamRank)
	return pa
}

// sortedNames returns the keys of a track map in a fixed order.
func sortedNames(tracks map[string][]model.Position) []string {
	names := make([]string, 0, len(tracks))
	for n := range tracks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// rotation is one player's movement after one announcement.
type rotation struct {
	moved   bool
	moveAt  time.Time
	entered bool
	enterAt time.Time
	route   float64 // straight / travelled * 100, 0 when not measured
}

// rotate follows one player's samples from the announcement until the zone
// is entered or the next announcement comes. It returns false when the
// player has no sample on both sides of the announcement.
func rotate(t Transition, track []model.Position) (rotation, bool) {
	var r rotation
	anchor := -1
	for i, p := range track {
		if p.At.After(t.At) {
			break
		}
		anchor = i
	}
	if anchor < 0 || anchor == len(track)-1 {
		return r, false
	}
	from := track[anchor]
	if inside(t.Zone, from) {
		return rotation{moved: true, moveAt: t.At, entered: true, enterAt: t.At}, true
	}

	origin := model.LocationOf(from.Character)
	prev := origin
	var travelled float64
	for _, p := range track[anchor+1:] {
		if !t.End.IsZero() && p.At.After(t.End) {
			break
		}
		loc := model.LocationOf(p.Character)
		travelled += flatDist(prev, loc)
		prev = loc
		if !r.moved && flatDist(origin, loc) >= cm(moveThreshold) {
			r.moved = true
			r.moveAt = p.At
		}
		if inside(t.Zone, p) {
			r.entered = true
			r.enterAt = p.At
			if travelled > 0 {
				r.route = flatDist(origin, loc) / travelled * 100
			}
			break
		}
	}
	return r, true
}

// rotations classifies every transition by its slowest measurable player.
func rotations(ts []Transition, tracks map[string][]model.Position) model.RotationAnalysis {
	ra := model.RotationAnalysis{Transitions: len(ts)}
	names := sortedNames(tracks)

	var enterSum, routeSum float64
	var entered int
	for _, t := range ts {
		wait := PhaseFor(t.Number).Wait
		worst := -1.0
		for _, name := range names {
			r, ok := rotate(t, tracks[name])
			if !ok {
				continue
			}
			frac := math.Inf(1)
			if r.moved {
				frac = r.moveAt.Sub(t.At).Seconds() / wait.Seconds()
			}
			worst = math.Max(worst, frac)
			if r.entered {
				enterSum += r.enterAt.Sub(t.At).Seconds()
				entered++
			}
			if r.route > 0 {
				routeSum += r.route
				ra.RoutesMeasured++
			}
		}
		switch {
		case worst < 0:
			// nobody alive on both sides of the announcement
		case worst < onTimeFraction:
			ra.OnTime++
		case worst > lateFraction:
			ra.Late++
		default:
			ra.Borderline++
		}
	}
	if entered > 0 {
		ra.AvgRotationTime = enterSum / float64(entered)
	}
	if ra.RoutesMeasured > 0 {
		ra.RouteEfficiency = routeSum / float64(ra.RoutesMeasured)
	}
	return ra
}

// compounds greedily clusters the team's samples around the first sample of
// each cluster and keeps the clusters held for more than compoundMinHold
// samples, largest first.
func compounds(m Match) []model.CompoundHold {
	type cluster struct {
		seed r3.Vector
		sum  r3.Vector
		n    int
	}
	var clusters []*cluster
	for _, p := range m.Team.Positions {
		if !m.tracked(p.Character) {
			continue
		}
		loc := p.Character.Location
		var home *cluster
		for _, c := range clusters {
			if flatDist(c.seed, loc) <= cm(compoundRadius) {
				home = c
				break
			}
		}
		if home == nil {
			home = &cluster{seed: loc}
			clusters = append(clusters, home)
		}
		home.sum = home.sum.Add(loc)
		home.n++
	}

	holds := []model.CompoundHold{}
	for _, c := range clusters {
		if c.n <= compoundMinHold {
			continue
		}
		holds = append(holds, model.CompoundHold{
			Center:   c.sum.Mul(1 / float64(c.n)),
			Samples:  c.n,
			HoldTime: time.Duration(c.n) * positionInterval,
		})
	}
	sort.SliceStable(holds, func(i, j int) bool { return holds[i].Samples > holds[j].Samples })
	return holds
}

// finalCircle measures each player's last sample against the smallest zone
// among the last few updates.
func finalCircle(zones []model.ZoneUpdate, tracks map[string][]model.Position) model.FinalCircle {
	fc := model.FinalCircle{Style: model.FinalCircleUnknown}

	var zone model.Circle
	from := len(zones) - finalZones
	if from < 0 {
		from = 0
	}
	for _, z := range zones[from:] {
		for _, c := range []model.Circle{z.SafeZone, z.Warning} {
			if c.Radius > 0 && (zone.Radius == 0 || c.Radius < zone.Radius) {
				zone = c
			}
		}
	}
	if zone.Radius == 0 {
		return fc
	}
	fc.ZoneRadius = zone.Radius / 100

	var sum float64
	for _, name := range sortedNames(tracks) {
		track := tracks[name]
		if len(track) == 0 {
			continue
		}
		last := model.LocationOf(track[len(track)-1].Character)
		sum += flatDist(zone.Center, last) / zone.Radius
		fc.PlayersMeasured++
	}
	if fc.PlayersMeasured == 0 {
		return fc
	}
	fc.AvgDistanceRatio = sum / float64(fc.PlayersMeasured)
	switch {
	case fc.AvgDistanceRatio < centerRatio:
		fc.Style = model.FinalCircleCenter
	case fc.AvgDistanceRatio > edgeRatio:
		fc.Style = model.FinalCircleEdge
	default:
		fc.Style = model.FinalCircleBalanced
	}
	return fc
}

func positioningMistakes(pa model.PositioningAnalysis, rank int) []model.CriticalMistake {
	out := []model.CriticalMistake{}
	if pa.Rotation.Late > 2 {
		out = append(out, model.CriticalMistake{
			Type:           model.MistakeZoneManagement,
			Impact:         model.ImpactHigh,
			Description:    fmt.Sprintf("Late on %d of %d zone rotations", pa.Rotation.Late, pa.Rotation.Transitions),
			Recommendation: "Start rotating as soon as the next zone is announced instead of waiting for the shrink",
			Count:          pa.Rotation.Late,
		})
	}
	if pa.BlueZoneDamage > 100 {
		out = append(out, model.CriticalMistake{
			Type:           model.MistakeZoneManagement,
			Impact:         model.ImpactMedium,
			Description:    fmt.Sprintf("Took %.0f blue-zone damage", pa.BlueZoneDamage),
			Recommendation: "Carry more heals and leave for the zone earlier to avoid fighting the blue",
			Count:          1,
		})
	}
	if pa.Rotation.RoutesMeasured > 0 && pa.Rotation.RouteEfficiency < lowRouteScore {
		out = append(out, model.CriticalMistake{
			Type:           model.MistakeZoneManagement,
			Impact:         model.ImpactMedium,
			Description:    fmt.Sprintf("Rotation routes were %.0f%% efficient", pa.Rotation.RouteEfficiency),
			Recommendation: "Plan a direct route to the next zone using cover and avoid detours",
			Count:          pa.Rotation.RoutesMeasured,
		})
	}
	if pa.VehicleUsage < minVehicleRides {
		out = append(out, model.CriticalMistake{
			Type:           model.MistakeZoneManagement,
			Impact:         model.ImpactLow,
			Description:    fmt.Sprintf("Used vehicles only %d times", pa.VehicleUsage),
			Recommendation: "Secure a vehicle early for long rotations",
			Count:          pa.VehicleUsage,
		})
	}
	if rank > badRank {
		out = append(out, model.CriticalMistake{
			Type:           model.MistakePositioning,
			Impact:         model.ImpactHigh,
			Description:    fmt.Sprintf("Finished in position #%d", rank),
			Recommendation: "Prioritise survival in the early game: pick quieter drops and avoid contested loot",
			Count:          1,
		})
	}
	return out
}

func positioningScore(pa model.PositioningAnalysis, rank int) float64 {
	score := 70.0
	ra := pa.Rotation
	score += 5 * math.Min(float64(ra.OnTime), 4)
	score -= 10*float64(ra.Late) + 5*float64(ra.Borderline)
	score -= math.Min(25, pa.BlueZoneTime/4)
	if ra.RoutesMeasured > 0 && ra.RouteEfficiency < lowRouteScore {
		score -= (lowRouteScore - ra.RouteEfficiency) / 2
	}
	if len(pa.Compounds) > 0 {
		score += 5
	}
	switch pa.FinalCircle.Style {
	case model.FinalCircleCenter:
		score += 5
	case model.FinalCircleEdge:
		score -= 5
	}
	switch {
	case rank > 0 && rank <= 10:
		score += 10
	case rank > badRank:
		score -= 20
	}
	return clamp(score)
}
