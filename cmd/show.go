package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pubg-coach/internal/model"
	"github.com/pable/go-pubg-coach/internal/report"
	"github.com/pable/go-pubg-coach/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <match-prefix>",
	Short: "Show a stored match analysis by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var tipsCmd = &cobra.Command{
	Use:   "tips <match-prefix>",
	Short: "Show the coaching tips of a stored match",
	Args:  cobra.ExactArgs(1),
	RunE:  runTips,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <match-prefix>",
	Short: "Delete one stored match analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

// findMatch resolves a match id prefix, printing a notice when nothing matches.
func findMatch(db *storage.DB, prefix string) (*model.MatchSummary, error) {
	m, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("query match: %w", err)
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", prefix)
	}
	return m, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := findMatch(db, args[0])
	if err != nil || m == nil {
		return err
	}

	players, err := db.GetPlayerSummaries(m.MatchID)
	if err != nil {
		return fmt.Errorf("get player summaries: %w", err)
	}
	weapons, err := db.GetWeaponStats(m.MatchID)
	if err != nil {
		return fmt.Errorf("get weapon stats: %w", err)
	}
	tips, err := db.GetTips(m.MatchID)
	if err != nil {
		return fmt.Errorf("get tips: %w", err)
	}
	snapshot, _, err := db.LoadAnalysis(m.MatchID)
	if err != nil {
		return fmt.Errorf("load analysis: %w", err)
	}

	report.PrintMatchSummary(os.Stdout, *m)
	report.PrintPlayerTable(os.Stdout, players)
	report.PrintWeaponTable(os.Stdout, weapons)
	if snapshot != nil {
		report.PrintTactics(os.Stdout, snapshot.Telemetry)
		report.PrintScores(os.Stdout, snapshot.Scores, m.OverallRating)
	}
	report.PrintTips(os.Stdout, tips)
	return nil
}

func runTips(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := findMatch(db, args[0])
	if err != nil || m == nil {
		return err
	}
	tips, err := db.GetTips(m.MatchID)
	if err != nil {
		return fmt.Errorf("get tips: %w", err)
	}
	report.PrintMatchSummary(os.Stdout, *m)
	report.PrintTips(os.Stdout, tips)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := findMatch(db, args[0])
	if err != nil || m == nil {
		return err
	}
	if err := db.DeleteMatch(m.MatchID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", m.MatchID)
	return nil
}
