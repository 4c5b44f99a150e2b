// Package report renders stored and freshly computed match analyses as
// terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-pubg-coach/internal/model"
)

var (
	cHeader = color.New(color.FgCyan, color.Bold)
	cHigh   = color.New(color.FgRed, color.Bold)
	cMedium = color.New(color.FgYellow)
	cLow    = color.New(color.Faint)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func dash(v float64, format string) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func formatDate(s model.MatchSummary) string {
	if s.MatchStart.IsZero() {
		return "-"
	}
	return s.MatchStart.UTC().Format("2006-01-02 15:04")
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	fmt.Fprintf(w, "\nMatch: %s  |  Date: %s  |  Rank: #%d  |  Squad: %s  |  Overall: %.1f (%s)\n\n",
		shortID(s.MatchID), formatDate(s), s.TeamRank, strings.Join(s.Roster, ", "), s.OverallScore, s.OverallRating)
}

// PrintMatchList prints one row per stored match.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("MATCH", "DATE", "RANK", "SQUAD", "OVERALL", "RATING")
	for _, m := range matches {
		table.Append(
			shortID(m.MatchID),
			formatDate(m),
			strconv.Itoa(m.TeamRank),
			strings.Join(m.Roster, ","),
			fmt.Sprintf("%.1f", m.OverallScore),
			m.OverallRating,
		)
	}
	table.Render()
}

// PrintPlayerTable prints the per-player combat summary.
func PrintPlayerTable(w io.Writer, players []model.PlayerSummary) {
	table := newTable(w)
	table.Header("NAME", "K", "DBNO", "D", "A", "REV", "K/D", "DMG", "TAKEN", "AVG_DIST", "HS%", "CHAINS")
	for _, p := range players {
		table.Append(
			p.Name,
			strconv.Itoa(p.Kills),
			strconv.Itoa(p.Knockdowns),
			strconv.Itoa(p.Deaths),
			strconv.Itoa(p.Assists),
			strconv.Itoa(p.Revives),
			fmt.Sprintf("%.2f", p.KDRatio),
			fmt.Sprintf("%.0f", p.TotalDamageDealt),
			fmt.Sprintf("%.0f", p.TotalDamageTaken),
			dash(p.AvgKillDistance, "%.0fm"),
			fmt.Sprintf("%.0f%%", p.HeadshotPct),
			strconv.Itoa(p.KillChains),
		)
	}
	table.Render()
}

// PrintWeaponTable prints one row per player and weapon.
func PrintWeaponTable(w io.Writer, stats []model.PlayerWeaponStats) {
	if len(stats) == 0 {
		return
	}
	table := newTable(w)
	table.Header("PLAYER", "WEAPON", "CLASS", "K", "DBNO", "DMG", "SHOTS", "HITS", "ACC%", "LETHAL%", "LONGEST")
	for _, s := range stats {
		table.Append(
			s.Player,
			s.Weapon,
			string(s.Category),
			strconv.Itoa(s.Kills),
			strconv.Itoa(s.Knockdowns),
			fmt.Sprintf("%.0f", s.DamageDealt),
			strconv.Itoa(s.ShotsFired),
			strconv.Itoa(s.Hits),
			dash(s.Accuracy, "%.1f"),
			dash(s.Lethality, "%.1f"),
			dash(s.LongestKill, "%.0fm"),
		)
	}
	table.Render()
}

// PrintScores prints the five category scores and the overall score.
func PrintScores(w io.Writer, s model.PerformanceScores, rating string) {
	table := newTable(w)
	table.Header("CATEGORY", "SCORE")
	for _, c := range s.Categories() {
		table.Append(c.Name, fmt.Sprintf("%.1f", c.Value))
	}
	table.Append("overall", fmt.Sprintf("%.1f", s.Overall))
	table.Render()

	fmt.Fprintf(w, "Rating: %s  |  Improvement potential: %.1f\n", rating, s.ImprovementPotential)
	if len(s.Strengths) > 0 {
		fmt.Fprintf(w, "Strengths: %s\n", strings.Join(s.Strengths, ", "))
	}
	if len(s.PriorityImprovements) > 0 {
		fmt.Fprintf(w, "Focus on: %s\n", strings.Join(s.PriorityImprovements, ", "))
	}
	fmt.Fprintln(w)
}

// PrintTactics prints the team-level tactical breakdown and its mistakes.
func PrintTactics(w io.Writer, t model.TelemetryAnalysisResult) {
	e, p := t.Engagement, t.Positioning
	cHeader.Fprintln(w, "Engagements")
	fmt.Fprintf(w, "  %d fights, %d won, %d lost (%.0f%%), avg distance %.0fm, %d third-party, %d bad-range deaths\n",
		e.TotalEngagements, e.WonEngagements, e.LostEngagements, e.WinRate,
		e.AvgEngagementDistance, e.ThirdPartySituations, e.UnfavorableRangeDeaths)
	over := strconv.Itoa(e.Positioning.OverExtensions)
	if e.Positioning.OverExtensionEstimated {
		over += " (est.)"
	}
	fmt.Fprintf(w, "  high ground %d, over-extensions %s\n", e.Positioning.HighGroundAdvantage, over)

	if len(e.WeaponEffectiveness) > 0 {
		table := newTable(w)
		table.Header("WEAPON", "K", "SHOTS", "HITS", "ACC%", "AVG_DIST", "ADVICE")
		for _, we := range e.WeaponEffectiveness {
			table.Append(
				we.Weapon,
				strconv.Itoa(we.Kills),
				strconv.Itoa(we.ShotsFired),
				strconv.Itoa(we.Hits),
				dash(we.Accuracy, "%.1f"),
				dash(we.AvgDistance, "%.0fm"),
				we.Recommendation,
			)
		}
		table.Render()
	}

	r := p.Rotation
	cHeader.Fprintln(w, "Positioning")
	fmt.Fprintf(w, "  zones %d: %d on time, %d late, %d borderline, avg rotation %.0fs, route efficiency %.0f%%\n",
		r.Transitions, r.OnTime, r.Late, r.Borderline, r.AvgRotationTime, r.RouteEfficiency)
	fmt.Fprintf(w, "  blue zone %.0f dmg (~%.0fs), %d compounds held, %d vehicle rides, final circle %s\n",
		p.BlueZoneDamage, p.BlueZoneTime, len(p.Compounds), p.VehicleUsage, p.FinalCircle.Style)

	l := t.Looting
	cHeader.Fprintln(w, "Looting")
	ttfw := "-"
	if l.HasWeapon {
		ttfw = fmt.Sprintf("%.0fs", l.TimeToFirstWeapon.Seconds())
	}
	fmt.Fprintf(w, "  %d items, %d weapons, %d attachments, %d heals, %d boosts, first weapon %s\n",
		l.ItemsPickedUp, l.WeaponsPickedUp, l.AttachmentsPickedUp, l.HealsUsed, l.BoostsUsed, ttfw)

	c := t.TeamCoordination
	cHeader.Fprintln(w, "Teamwork")
	fmt.Fprintf(w, "  %d revives, %d assists, %d trades, avg spread %.0fm\n\n",
		c.Revives, c.Assists, c.TradeKills, c.AvgTeamSpread)

	if len(t.CriticalMistakes) > 0 {
		table := newTable(w)
		table.Header("IMPACT", "TYPE", "MISTAKE", "FIX")
		for _, m := range t.CriticalMistakes {
			table.Append(m.Impact.String(), string(m.Type), m.Description, m.Recommendation)
		}
		table.Render()
	}
}

func priorityColor(p model.Priority) *color.Color {
	switch p {
	case model.PriorityHigh:
		return cHigh
	case model.PriorityMedium:
		return cMedium
	default:
		return cLow
	}
}

// PrintTips prints the ranked coaching tips with their action steps.
func PrintTips(w io.Writer, tips []model.CoachingTip) {
	if len(tips) == 0 {
		fmt.Fprintln(w, "No coaching tips for this match.")
		return
	}
	cHeader.Fprintln(w, "Coaching tips")
	for i, t := range tips {
		fmt.Fprintf(w, "%2d. ", i+1)
		priorityColor(t.Priority).Fprintf(w, "[%s/%s]", t.Priority, t.Urgency)
		fmt.Fprintf(w, " %s\n", t.Title)
		if t.Description != "" {
			fmt.Fprintf(w, "    %s\n", t.Description)
		}
		for _, step := range t.ActionSteps {
			fmt.Fprintf(w, "    - %s\n", step)
		}
	}
	fmt.Fprintln(w)
}

// Summary builds the list row of a fresh analysis.
func Summary(ma *model.MatchAnalysis) model.MatchSummary {
	return model.MatchSummary{
		MatchID:       ma.MatchID,
		MatchStart:    ma.MatchStart,
		TeamRank:      ma.TeamRank,
		Roster:        ma.Roster,
		OverallScore:  ma.Scores.Overall,
		OverallRating: ma.Telemetry.OverallRating,
	}
}

// PrintAnalysis prints everything known about a freshly analysed match.
func PrintAnalysis(w io.Writer, ma *model.MatchAnalysis) {
	PrintMatchSummary(w, Summary(ma))

	players := make([]model.PlayerSummary, 0, len(ma.Players))
	var weapons []model.PlayerWeaponStats
	for i := range ma.Players {
		p := &ma.Players[i]
		players = append(players, p.Summarize(ma.MatchID))
		for _, ws := range p.WeaponStats {
			weapons = append(weapons, model.PlayerWeaponStats{Player: p.Name, WeaponStats: ws})
		}
	}
	PrintPlayerTable(w, players)
	PrintWeaponTable(w, weapons)
	PrintTactics(w, ma.Telemetry)
	PrintScores(w, ma.Scores, ma.Telemetry.OverallRating)
	PrintTips(w, ma.Tips)
}
