package storage

import (
	"testing"
	"time"

	"github.com/pable/go-pubg-coach/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var start = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleAnalysis(id string, matchStart time.Time) *model.MatchAnalysis {
	return &model.MatchAnalysis{
		MatchID:    id,
		MatchStart: matchStart,
		TeamRank:   7,
		Roster:     []string{"alpha", "bravo"},
		Players: []model.PlayerAnalysis{
			{
				Name:             "alpha",
				Kills:            []model.Kill{{Header: model.Header{At: matchStart.Add(time.Minute)}, Weapon: "WeapHK416_C"}},
				TotalDamageDealt: 180,
				KDRatio:          1,
				AvgKillDistance:  42.5,
				WeaponStats: []model.WeaponStats{
					{Weapon: "M416", Category: model.CategoryAR, Kills: 1, DamageDealt: 180, ShotsFired: 30, Hits: 6, Accuracy: 20},
				},
			},
			{Name: "bravo", TotalDamageTaken: 100},
		},
		Telemetry: model.TelemetryAnalysisResult{MatchID: id, OverallRating: "AVERAGE"},
		Scores: model.PerformanceScores{
			Positioning: 40, Engagement: 55, Looting: 70, Teamwork: 50, DecisionMaking: 84, Overall: 59.8,
		},
		Tips: []model.CoachingTip{
			{Urgency: model.UrgencyImmediate, Priority: model.PriorityHigh, Title: "Rotate earlier",
				ActionSteps: []string{"Move on the announcement", "Plan a route"}},
			{Urgency: model.UrgencyLongTerm, Priority: model.PriorityLow, Title: "Loot with a plan"},
		},
	}
}

func TestInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	runID, err := db.InsertAnalysis(sampleAnalysis("match-abc", start), start.Add(time.Hour))
	if err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}
	if runID == "" {
		t.Error("expected a run id")
	}

	exists, err := db.MatchExists("match-abc")
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after insert")
	}

	exists2, _ := db.MatchExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent match to not exist")
	}
}

func TestListMatches(t *testing.T) {
	db := openMemDB(t)

	if _, err := db.InsertAnalysis(sampleAnalysis("m-old", start), start); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}
	if _, err := db.InsertAnalysis(sampleAnalysis("m-new", start.Add(24*time.Hour)), start); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}

	got, err := db.ListMatches()
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].MatchID != "m-new" {
		t.Errorf("expected newest match first, got %s", got[0].MatchID)
	}
	if !got[1].MatchStart.Equal(start) {
		t.Errorf("match start: got %v, want %v", got[1].MatchStart, start)
	}
	if len(got[0].Roster) != 2 || got[0].Roster[1] != "bravo" {
		t.Errorf("roster: got %v", got[0].Roster)
	}
	if got[0].OverallRating != "AVERAGE" {
		t.Errorf("rating: got %q", got[0].OverallRating)
	}
}

func TestGetMatchByPrefix(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.InsertAnalysis(sampleAnalysis("abcdef-123", start), start); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}

	m, err := db.GetMatchByPrefix("abcd")
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if m == nil || m.MatchID != "abcdef-123" {
		t.Fatalf("expected abcdef-123, got %+v", m)
	}

	m, err = db.GetMatchByPrefix("zzz")
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if m != nil {
		t.Errorf("expected nil for unknown prefix, got %+v", m)
	}
}

func TestPlayersWeaponsAndTips(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.InsertAnalysis(sampleAnalysis("m1", start), start); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}

	players, err := db.GetPlayerSummaries("m1")
	if err != nil {
		t.Fatalf("GetPlayerSummaries: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	if players[0].Name != "alpha" || players[0].Kills != 1 || players[0].AvgKillDistance != 42.5 {
		t.Errorf("alpha summary: %+v", players[0])
	}
	if players[1].TotalDamageTaken != 100 {
		t.Errorf("bravo damage taken: got %v", players[1].TotalDamageTaken)
	}

	weapons, err := db.GetWeaponStats("m1")
	if err != nil {
		t.Fatalf("GetWeaponStats: %v", err)
	}
	if len(weapons) != 1 {
		t.Fatalf("expected 1 weapon row, got %d", len(weapons))
	}
	if weapons[0].Player != "alpha" || weapons[0].Weapon != "M416" || weapons[0].Category != model.CategoryAR {
		t.Errorf("weapon row: %+v", weapons[0])
	}

	tips, err := db.GetTips("m1")
	if err != nil {
		t.Fatalf("GetTips: %v", err)
	}
	if len(tips) != 2 {
		t.Fatalf("expected 2 tips, got %d", len(tips))
	}
	if tips[0].Title != "Rotate earlier" || tips[0].Urgency != model.UrgencyImmediate || tips[0].Priority != model.PriorityHigh {
		t.Errorf("first tip: %+v", tips[0])
	}
	if len(tips[0].ActionSteps) != 2 {
		t.Errorf("action steps: got %v", tips[0].ActionSteps)
	}
	if tips[1].Urgency != model.UrgencyLongTerm || tips[1].ActionSteps != nil {
		t.Errorf("second tip: %+v", tips[1])
	}
}

func TestReinsertReplaces(t *testing.T) {
	db := openMemDB(t)
	ma := sampleAnalysis("m1", start)
	first, err := db.InsertAnalysis(ma, start)
	if err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}

	ma.Players = ma.Players[:1]
	ma.Tips = nil
	second, err := db.InsertAnalysis(ma, start)
	if err != nil {
		t.Fatalf("InsertAnalysis again: %v", err)
	}
	if first == second {
		t.Error("expected a fresh run id on re-insert")
	}

	players, _ := db.GetPlayerSummaries("m1")
	if len(players) != 1 {
		t.Errorf("expected stale players removed, got %d", len(players))
	}
	tips, _ := db.GetTips("m1")
	if len(tips) != 0 {
		t.Errorf("expected stale tips removed, got %d", len(tips))
	}
}

func TestLoadAnalysis(t *testing.T) {
	db := openMemDB(t)
	runID, err := db.InsertAnalysis(sampleAnalysis("m1", start), start)
	if err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}

	ma, gotRun, err := db.LoadAnalysis("m1")
	if err != nil {
		t.Fatalf("LoadAnalysis: %v", err)
	}
	if gotRun != runID {
		t.Errorf("run id: got %s, want %s", gotRun, runID)
	}
	if ma == nil || len(ma.Players) != 2 {
		t.Fatalf("expected 2 players in snapshot, got %+v", ma)
	}
	if len(ma.Players[0].Kills) != 1 || ma.Players[0].Kills[0].Weapon != "WeapHK416_C" {
		t.Errorf("kills not preserved: %+v", ma.Players[0].Kills)
	}
	if ma.Scores.DecisionMaking != 84 {
		t.Errorf("decision score: got %v", ma.Scores.DecisionMaking)
	}

	missing, _, err := db.LoadAnalysis("nope")
	if err != nil {
		t.Fatalf("LoadAnalysis missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil analysis for unknown match")
	}
}

func TestDeleteMatch(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.InsertAnalysis(sampleAnalysis("m1", start), start); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}
	if err := db.DeleteMatch("m1"); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}

	exists, _ := db.MatchExists("m1")
	if exists {
		t.Error("expected match removed")
	}
	weapons, _ := db.GetWeaponStats("m1")
	if len(weapons) != 0 {
		t.Errorf("expected weapon rows removed, got %d", len(weapons))
	}
	ma, _, _ := db.LoadAnalysis("m1")
	if ma != nil {
		t.Error("expected snapshot removed")
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.InsertAnalysis(sampleAnalysis("m1", start), start); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}

	cols, rows, err := db.QueryRaw("SELECT match_id, team_rank, overall_score, NULL AS nothing FROM matches")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 4 || cols[0] != "match_id" {
		t.Fatalf("columns: got %v", cols)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := []string{"m1", "7", "59.80", "NULL"}
	for i, w := range want {
		if rows[0][i] != w {
			t.Errorf("col %d: got %q, want %q", i, rows[0][i], w)
		}
	}

	if _, _, err := db.QueryRaw("SELECT * FROM no_such_table"); err == nil {
		t.Error("expected error for unknown table")
	}
}
