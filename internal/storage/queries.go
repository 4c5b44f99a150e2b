package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-pubg-coach/internal/model"
)

const snapshotEncoding = "zstd+json"

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// MatchExists returns true if an analysis for the match is already stored.
func (db *DB) MatchExists(matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertAnalysis stores a full match analysis in one transaction: the match
// summary, per-player rows, weapon rows, tips and a compressed JSON snapshot.
// Re-inserting a match replaces everything stored for it. It returns the run
// id assigned to this snapshot.
func (db *DB) InsertAnalysis(ma *model.MatchAnalysis, analyzedAt time.Time) (string, error) {
	payload, err := json.Marshal(ma)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	compressed := db.enc.EncodeAll(payload, nil)
	runID := uuid.NewString()

	tx, err := db.conn.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	for _, table := range []string{"player_analyses", "weapon_stats", "coaching_tips"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE match_id = ?", ma.MatchID); err != nil {
			return "", fmt.Errorf("clear %s: %w", table, err)
		}
	}

	s := ma.Scores
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(
			match_id, match_start, team_rank, roster, overall_score, overall_rating,
			positioning, engagement, looting, teamwork, decision_making, analyzed_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		ma.MatchID, formatTime(ma.MatchStart), ma.TeamRank, strings.Join(ma.Roster, ","),
		s.Overall, ma.Telemetry.OverallRating,
		s.Positioning, s.Engagement, s.Looting, s.Teamwork, s.DecisionMaking,
		formatTime(analyzedAt),
	)
	if err != nil {
		return "", fmt.Errorf("insert match %s: %w", ma.MatchID, err)
	}

	playerStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_analyses(
			match_id, name, kills, knockdowns, deaths, assists, revives, kill_chains,
			damage_dealt, damage_taken, kd_ratio, avg_kill_distance_m, headshot_pct
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer playerStmt.Close()

	weaponStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO weapon_stats(
			match_id, player, weapon, category, kills, knockdowns, damage,
			shots_fired, hits, longest_kill_m, accuracy, lethality, efficiency
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer weaponStmt.Close()

	for i := range ma.Players {
		p := &ma.Players[i]
		ps := p.Summarize(ma.MatchID)
		_, err = playerStmt.Exec(
			ps.MatchID, ps.Name, ps.Kills, ps.Knockdowns, ps.Deaths, ps.Assists, ps.Revives, ps.KillChains,
			ps.TotalDamageDealt, ps.TotalDamageTaken, ps.KDRatio, ps.AvgKillDistance, ps.HeadshotPct,
		)
		if err != nil {
			return "", fmt.Errorf("insert player_analyses for %s: %w", p.Name, err)
		}
		for _, w := range p.WeaponStats {
			_, err = weaponStmt.Exec(
				ma.MatchID, p.Name, w.Weapon, string(w.Category), w.Kills, w.Knockdowns, w.DamageDealt,
				w.ShotsFired, w.Hits, w.LongestKill, w.Accuracy, w.Lethality, w.Efficiency,
			)
			if err != nil {
				return "", fmt.Errorf("insert weapon_stats for %s/%s: %w", p.Name, w.Weapon, err)
			}
		}
	}

	tipStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO coaching_tips(
			match_id, position, urgency, priority, title, description, action_steps, timeframe, difficulty
		) VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer tipStmt.Close()

	for i, tip := range ma.Tips {
		_, err = tipStmt.Exec(
			ma.MatchID, i, tip.Urgency.String(), tip.Priority.String(), tip.Title, tip.Description,
			strings.Join(tip.ActionSteps, "\n"), tip.Timeframe, tip.Difficulty,
		)
		if err != nil {
			return "", fmt.Errorf("insert coaching_tips: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO analysis_snapshots(match_id, run_id, encoding, raw_size, payload, created_at)
		VALUES (?,?,?,?,?,?)`,
		ma.MatchID, runID, snapshotEncoding, len(payload), compressed, formatTime(analyzedAt),
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

const matchColumns = `match_id, match_start, team_rank, roster, overall_score, overall_rating, analyzed_at`

func scanMatch(row interface{ Scan(...any) error }) (model.MatchSummary, error) {
	var s model.MatchSummary
	var start, roster, analyzed string
	if err := row.Scan(&s.MatchID, &start, &s.TeamRank, &roster, &s.OverallScore, &s.OverallRating, &analyzed); err != nil {
		return s, err
	}
	s.MatchStart = parseTime(start)
	s.AnalyzedAt = parseTime(analyzed)
	if roster != "" {
		s.Roster = strings.Split(roster, ",")
	}
	return s, nil
}

// ListMatches returns all stored match summaries ordered by match start desc.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + matchColumns + ` FROM matches ORDER BY match_start DESC, match_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		s, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix returns the match whose id starts with prefix, or nil
// when none does.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	row := db.conn.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE match_id LIKE ? ORDER BY match_id LIMIT 1`, prefix+"%")
	s, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetPlayerSummaries returns the stored per-player rows of a match.
func (db *DB) GetPlayerSummaries(matchID string) ([]model.PlayerSummary, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, name, kills, knockdowns, deaths, assists, revives, kill_chains,
		       damage_dealt, damage_taken, kd_ratio, avg_kill_distance_m, headshot_pct
		FROM player_analyses WHERE match_id = ? ORDER BY name`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerSummary
	for rows.Next() {
		var p model.PlayerSummary
		if err := rows.Scan(&p.MatchID, &p.Name, &p.Kills, &p.Knockdowns, &p.Deaths, &p.Assists, &p.Revives, &p.KillChains,
			&p.TotalDamageDealt, &p.TotalDamageTaken, &p.KDRatio, &p.AvgKillDistance, &p.HeadshotPct); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetWeaponStats returns the stored weapon rows of a match, best weapons first.
func (db *DB) GetWeaponStats(matchID string) ([]model.PlayerWeaponStats, error) {
	rows, err := db.conn.Query(`
		SELECT player, weapon, category, kills, knockdowns, damage, shots_fired, hits,
		       longest_kill_m, accuracy, lethality, efficiency
		FROM weapon_stats WHERE match_id = ?
		ORDER BY kills DESC, damage DESC, player, weapon`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerWeaponStats
	for rows.Next() {
		var w model.PlayerWeaponStats
		var cat string
		if err := rows.Scan(&w.Player, &w.Weapon, &cat, &w.Kills, &w.Knockdowns, &w.DamageDealt, &w.ShotsFired, &w.Hits,
			&w.LongestKill, &w.Accuracy, &w.Lethality, &w.Efficiency); err != nil {
			return nil, err
		}
		w.Category = model.WeaponCategory(cat)
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetTips returns the stored tips of a match in their ranked order.
func (db *DB) GetTips(matchID string) ([]model.CoachingTip, error) {
	rows, err := db.conn.Query(`
		SELECT urgency, priority, title, description, action_steps, timeframe, difficulty
		FROM coaching_tips WHERE match_id = ? ORDER BY position`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CoachingTip
	for rows.Next() {
		var t model.CoachingTip
		var urgency, priority, steps string
		if err := rows.Scan(&urgency, &priority, &t.Title, &t.Description, &steps, &t.Timeframe, &t.Difficulty); err != nil {
			return nil, err
		}
		t.Urgency = parseUrgency(urgency)
		t.Priority = parsePriority(priority)
		if steps != "" {
			t.ActionSteps = strings.Split(steps, "\n")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// LoadAnalysis decodes the stored snapshot of a match. It returns nil when no
// snapshot exists.
func (db *DB) LoadAnalysis(matchID string) (*model.MatchAnalysis, string, error) {
	var runID, encoding string
	var payload []byte
	err := db.conn.QueryRow(`SELECT run_id, encoding, payload FROM analysis_snapshots WHERE match_id = ?`, matchID).
		Scan(&runID, &encoding, &payload)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	if encoding != snapshotEncoding {
		return nil, "", fmt.Errorf("snapshot %s: unsupported encoding %q", matchID, encoding)
	}
	raw, err := db.dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, "", fmt.Errorf("snapshot %s: %w", matchID, err)
	}
	var ma model.MatchAnalysis
	if err := json.Unmarshal(raw, &ma); err != nil {
		return nil, "", fmt.Errorf("snapshot %s: %w", matchID, err)
	}
	return &ma, runID, nil
}

// DeleteMatch removes everything stored for a match.
func (db *DB) DeleteMatch(matchID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, table := range []string{"matches", "player_analyses", "weapon_stats", "coaching_tips", "analysis_snapshots"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE match_id = ?", matchID); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// QueryRaw runs an arbitrary query and returns column names and every row
// rendered as strings. NULLs render as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			case float64:
				row[i] = fmt.Sprintf("%.2f", x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseUrgency(s string) model.Urgency {
	for _, u := range []model.Urgency{model.UrgencyImmediate, model.UrgencyShortTerm, model.UrgencyLongTerm} {
		if u.String() == s {
			return u
		}
	}
	return 0
}

func parsePriority(s string) model.Priority {
	for _, p := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		if p.String() == s {
			return p
		}
	}
	return 0
}
