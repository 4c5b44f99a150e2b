// Package classify filters a raw telemetry stream down to the events that
// concern a tracked roster and splits it into time-ordered per-kind streams.
package classify

import "strings"

// SameName reports whether two telemetry names refer to the same player.
// It tries an exact match, then a case-insensitive match, then a
// case-insensitive match after trimming surrounding whitespace. Anything
// fuzzier is rejected so that assists and kills are never misattributed.
func SameName(a, b string) bool {
	if a == b {
		return true
	}
	if strings.EqualFold(a, b) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Key folds a name the way the loosest SameName pass compares it, for use
// as a map key.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Roster is the set of tracked player names.
type Roster struct {
	names []string
}

// NewRoster builds a roster, dropping blank names and duplicates.
func NewRoster(names []string) Roster {
	var r Roster
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		if _, ok := r.Resolve(n); ok {
			continue
		}
		r.names = append(r.names, n)
	}
	return r
}

// Names returns the tracked names in insertion order.
func (r Roster) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of tracked players.
func (r Roster) Len() int { return len(r.names) }

// Resolve returns the roster's spelling of name, if name is tracked.
func (r Roster) Resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for _, n := range r.names {
		if SameName(n, name) {
			return n, true
		}
	}
	return "", false
}

// Contains reports whether name is tracked.
func (r Roster) Contains(name string) bool {
	_, ok := r.Resolve(name)
	return ok
}
