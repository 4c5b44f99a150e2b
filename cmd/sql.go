package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the analysis database",
	Long: `Run an arbitrary SQL query against the analysis database and print results as a table.

Schema overview:
  matches(match_id, match_start, team_rank, roster, overall_score, overall_rating,
    positioning, engagement, looting, teamwork, decision_making, analyzed_at)
  player_analyses(match_id, name, kills, knockdowns, deaths, assists, revives,
    kill_chains, damage_dealt, damage_taken, kd_ratio, avg_kill_distance_m, headshot_pct)
  weapon_stats(match_id, player, weapon, category, kills, knockdowns, damage,
    shots_fired, hits, longest_kill_m, accuracy, lethality, efficiency)
  coaching_tips(match_id, position, urgency, priority, title, description,
    action_steps, timeframe, difficulty)
  analysis_snapshots(match_id, run_id, encoding, raw_size, payload, created_at)

Example:
  pubgcoach sql "SELECT name, AVG(kd_ratio) FROM player_analyses GROUP BY name"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

