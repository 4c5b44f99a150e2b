package tactics

import (
	"math"
	"time"

	"github.com/pable/go-pubg-coach/internal/model"
)

// Phase is one step of the safe-zone schedule.
type Phase struct {
	Number int
	Wait   time.Duration // announcement to shrink start
	Shrink time.Duration // shrink duration
	DPS    float64       // blue-zone damage per second outside the zone
}

// phases is the fixed eight-phase zone schedule. Rotation timing and the
// blue-zone exposure estimate read from it.
var phases = [...]Phase{
	{Number: 1, Wait: 120 * time.Second, Shrink: 300 * time.Second, DPS: 0.4},
	{Number: 2, Wait: 90 * time.Second, Shrink: 140 * time.Second, DPS: 0.6},
	{Number: 3, Wait: 90 * time.Second, Shrink: 90 * time.Second, DPS: 0.8},
	{Number: 4, Wait: 60 * time.Second, Shrink: 60 * time.Second, DPS: 1.0},
	{Number: 5, Wait: 60 * time.Second, Shrink: 40 * time.Second, DPS: 3.0},
	{Number: 6, Wait: 45 * time.Second, Shrink: 30 * time.Second, DPS: 5.0},
	{Number: 7, Wait: 30 * time.Second, Shrink: 30 * time.Second, DPS: 7.0},
	{Number: 8, Wait: 30 * time.Second, Shrink: 30 * time.Second, DPS: 9.0},
}

// Phases returns a copy of the zone schedule.
func Phases() []Phase {
	out := make([]Phase, len(phases))
	copy(out, phases[:])
	return out
}

// PhaseFor returns the schedule entry for the n-th zone transition
// (1-based). Transitions past the table reuse the last phase.
func PhaseFor(n int) Phase {
	switch {
	case n < 1:
		return phases[0]
	case n > len(phases):
		return phases[len(phases)-1]
	}
	return phases[n-1]
}

// Transition is an announced change of the next safe zone.
type Transition struct {
	Number int
	At     time.Time
	Zone   model.Circle // the announced zone
	End    time.Time    // next transition, or zero for the last one
}

// radiusTolerance absorbs float noise between periodic snapshots (cm).
const radiusTolerance = 1.0

// Transitions detects zone announcements: every change of the warning
// circle's radius starts a new transition. Updates with no warning circle
// are ignored.
func Transitions(zones []model.ZoneUpdate) []Transition {
	var out []Transition
	var last float64
	for _, z := range zones {
		r := z.Warning.Radius
		if r <= 0 || math.Abs(r-last) <= radiusTolerance {
			continue
		}
		last = r
		if n := len(out); n > 0 {
			out[n-1].End = z.At
		}
		out = append(out, Transition{Number: len(out) + 1, At: z.At, Zone: z.Warning})
	}
	return out
}

// blueZoneSeconds estimates how long the team stood in the blue zone by
// dividing each hit by the damage rate of the phase it happened in.
func blueZoneSeconds(hits []model.TakeDamage, ts []Transition) float64 {
	var secs float64
	for _, d := range hits {
		n := 1
		for _, t := range ts {
			if t.At.After(d.At) {
				break
			}
			n = t.Number
		}
		secs += d.Damage / PhaseFor(n).DPS
	}
	return secs
}

// inside reports whether a point lies in the circle (horizontal distance).
func inside(c model.Circle, p model.Position) bool {
	return c.Radius > 0 && flatDist(c.Center, model.LocationOf(p.Character)) <= c.Radius
}
