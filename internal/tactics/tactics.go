// Package tactics derives team-level analyses from the classified streams of
// one match: engagements, zone positioning, looting and team coordination,
// plus the critical mistakes each of them flags.
package tactics

import (
	"math"
	"time"

	"github.com/golang/geo/r3"

	"github.com/pable/go-pubg-coach/internal/classify"
	"github.com/pable/go-pubg-coach/internal/model"
)

// Match is the shared input of every team analysis. Team holds the
// roster-filtered streams, All the complete match streams; both are
// time-sorted and read-only.
type Match struct {
	Roster   classify.Roster
	Team     *classify.Streams
	All      *classify.Streams
	Start    time.Time
	TeamRank int
}

// tracked reports whether c is a roster player.
func (m Match) tracked(c *model.Character) bool {
	return c != nil && m.Roster.Contains(c.Name)
}

// start returns the match start, or the earliest event seen when the caller
// did not supply one.
func (m Match) start() time.Time {
	if !m.Start.IsZero() {
		return m.Start
	}
	var first time.Time
	consider := func(t time.Time) {
		if !t.IsZero() && (first.IsZero() || t.Before(first)) {
			first = t
		}
	}
	if len(m.All.Zones) > 0 {
		consider(m.All.Zones[0].At)
	}
	if len(m.All.Positions) > 0 {
		consider(m.All.Positions[0].At)
	}
	if len(m.All.Pickups) > 0 {
		consider(m.All.Pickups[0].At)
	}
	return first
}

// teamKills returns kills credited to a roster player against a non-roster
// victim.
func (m Match) teamKills() []model.Kill {
	var out []model.Kill
	for _, k := range m.Team.Kills {
		if m.tracked(k.CreditedKiller()) && !m.tracked(k.Victim) {
			out = append(out, k)
		}
	}
	return out
}

// teamDeaths returns kills whose victim is a roster player.
func (m Match) teamDeaths() []model.Kill {
	var out []model.Kill
	for _, k := range m.Team.Kills {
		if m.tracked(k.Victim) {
			out = append(out, k)
		}
	}
	return out
}

// teamKnockdowns returns knockdowns by a roster player on a non-roster victim.
func (m Match) teamKnockdowns() []model.Knockdown {
	var out []model.Knockdown
	for _, kd := range m.Team.Knockdowns {
		if m.tracked(kd.Attacker) && !m.tracked(kd.Victim) {
			out = append(out, kd)
		}
	}
	return out
}

// tracks groups the team's position samples per roster player, keyed by the
// roster spelling. Samples stay time-ordered.
func (m Match) tracks() map[string][]model.Position {
	out := make(map[string][]model.Position)
	for _, p := range m.Team.Positions {
		if p.Character == nil {
			continue
		}
		name, ok := m.Roster.Resolve(p.Character.Name)
		if !ok {
			continue
		}
		out[name] = append(out[name], p)
	}
	return out
}

// flatDist is the horizontal distance between two points, in the units of
// the inputs.
func flatDist(a, b r3.Vector) float64 {
	return r3.Vector{X: a.X - b.X, Y: a.Y - b.Y}.Norm()
}

// cm converts metres to game units.
func cm(metres float64) float64 { return metres * 100 }

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}
