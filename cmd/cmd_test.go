package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-pubg-coach/internal/model"
)

func TestMatchIDFromPath(t *testing.T) {
	assert.Equal(t, "abc-123", matchIDFromPath("/tmp/abc-123.json.gz"))
	assert.Equal(t, "abc-123", matchIDFromPath("abc-123.json"))
	assert.Equal(t, "abc", matchIDFromPath("dir/abc.json.zst"))
	assert.Equal(t, "raw", matchIDFromPath("raw"))
}

func TestBuildMatchContext(t *testing.T) {
	ma := &model.MatchAnalysis{
		MatchID:  "m1",
		TeamRank: 4,
		Roster:   []string{"alpha"},
		Players: []model.PlayerAnalysis{{
			Name:        "alpha",
			Kills:       []model.Kill{{}, {}},
			KDRatio:     2,
			WeaponStats: []model.WeaponStats{{Weapon: "M416", Kills: 2, Accuracy: 23.456}},
		}},
		Telemetry: model.TelemetryAnalysisResult{
			OverallRating: "GOOD",
			CriticalMistakes: []model.CriticalMistake{
				{Type: model.MistakeEngagement, Impact: model.ImpactMedium, Description: "Lost most fights"},
			},
		},
		Tips: []model.CoachingTip{{Title: "Choose your fights"}},
	}

	out, err := buildMatchContext(ma)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "m1", doc["match_id"])
	assert.Equal(t, float64(4), doc["team_rank"])
	assert.Equal(t, []any{"Choose your fights"}, doc["tip_titles"])

	players := doc["players"].([]any)
	require.Len(t, players, 1)
	p := players[0].(map[string]any)
	assert.Equal(t, float64(2), p["kills"])
	w := p["weapons"].([]any)[0].(map[string]any)
	assert.Equal(t, 23.46, w["accuracy_pct"])

	m := doc["mistakes"].([]any)[0].(map[string]any)
	assert.Equal(t, "MEDIUM", m["impact"])
	assert.Equal(t, "ENGAGEMENT", m["type"])
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, round2(1.234))
	assert.Equal(t, 1.24, round2(1.235001))
	assert.Equal(t, 0.0, round2(0))
}

func TestRemoveDatabase(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "coach.db")
	require.NoError(t, os.WriteFile(db, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(db+"-wal", []byte("x"), 0o600))

	removed, err := removeDatabase(db)
	require.NoError(t, err)
	assert.Equal(t, []string{db, db + "-wal"}, removed)
	assert.NoFileExists(t, db)
	assert.NoFileExists(t, db+"-wal")

	removed, err = removeDatabase(db)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestRemoveDatabase_ReportsOtherErrors(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "coach.db")
	require.NoError(t, os.MkdirAll(filepath.Join(db+"-shm", "busy"), 0o700))

	_, err := removeDatabase(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coach.db-shm")
}
