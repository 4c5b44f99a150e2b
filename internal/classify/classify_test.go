package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-pubg-coach/internal/model"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func at(sec float64) model.Header {
	return model.Header{At: t0.Add(time.Duration(sec * float64(time.Second)))}
}

func char(name string) *model.Character { return &model.Character{Name: name} }

func TestSameName(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Shroud", "Shroud", true},
		{"Shroud", "shroud", true},
		{"  Shroud ", "SHROUD", true},
		{"Shroud", "Shroud_", false},
		{"Shroud", "Shr0ud", false},
		{"Shroud", "", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, SameName(c.a, c.b), "SameName(%q, %q)", c.a, c.b)
	}
}

func TestRoster_ResolveAndDedup(t *testing.T) {
	r := NewRoster([]string{"Alpha", " alpha ", "", "Bravo"})
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"Alpha", "Bravo"}, r.Names())

	name, ok := r.Resolve("ALPHA")
	require.True(t, ok)
	assert.Equal(t, "Alpha", name)

	assert.False(t, r.Contains("Alphа")) // Cyrillic a
	assert.False(t, r.Contains(""))
}

func TestParticipants_AllRoles(t *testing.T) {
	k := model.Kill{Header: at(0), Killer: char("k"), Victim: char("v"), Finisher: char("f"), DBNOMaker: char("d")}
	assert.Equal(t, []string{"k", "v", "f", "d"}, Participants(k))

	rv := model.Revive{Header: at(0), Reviver: char("medic"), Victim: nil}
	assert.Equal(t, []string{"medic"}, Participants(rv))

	assert.Empty(t, Participants(model.ZoneUpdate{Header: at(0)}))
}

func TestFilter_KeepsRosterEventsOnly(t *testing.T) {
	roster := NewRoster([]string{"alpha"})
	events := []model.Event{
		model.Kill{Header: at(1), Killer: char("ALPHA"), Victim: char("x")},
		model.Kill{Header: at(2), Killer: char("y"), Victim: char("x")},
		model.TakeDamage{Header: at(3), Attacker: nil, Victim: char(" alpha")},
		model.Revive{Header: at(4), Reviver: char("z"), Victim: char("alpha")},
		model.ZoneUpdate{Header: at(5)},
		model.Position{Header: at(6), Character: char("other")},
	}

	got := Filter(events, roster)
	require.Len(t, got, 4)
	assert.Equal(t, model.KindKill, got[0].Kind())
	assert.Equal(t, model.KindTakeDamage, got[1].Kind())
	assert.Equal(t, model.KindRevive, got[2].Kind())
	assert.Equal(t, model.KindZoneUpdate, got[3].Kind())
}

func TestFilter_EmptyInput(t *testing.T) {
	assert.Empty(t, Filter(nil, NewRoster([]string{"alpha"})))
}

func TestSplit_SortsWithoutMutatingInput(t *testing.T) {
	events := []model.Event{
		model.Kill{Header: at(30), Killer: char("a")},
		model.Kill{Header: at(10), Killer: char("b")},
		model.TakeDamage{Header: at(20), Damage: 10},
		model.Kill{Header: at(10), Killer: char("c")},
	}

	s := Split(events)
	require.Len(t, s.Kills, 3)
	assert.Equal(t, "b", s.Kills[0].Killer.Name)
	assert.Equal(t, "c", s.Kills[1].Killer.Name, "equal timestamps keep source order")
	assert.Equal(t, "a", s.Kills[2].Killer.Name)
	require.Len(t, s.Damages, 1)

	// Source order untouched.
	assert.Equal(t, "a", events[0].(model.Kill).Killer.Name)
}
