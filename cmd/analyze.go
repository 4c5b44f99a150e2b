package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-pubg-coach/internal/analyzer"
	"github.com/pable/go-pubg-coach/internal/model"
	"github.com/pable/go-pubg-coach/internal/report"
	"github.com/pable/go-pubg-coach/internal/telemetry"
)

// analyze command flags.
var (
	// analyzePlayers is the squad to analyse.
	analyzePlayers []string
	// analyzeMatchID overrides the id derived from the file name.
	analyzeMatchID string
	// analyzeRank is the squad's final placement.
	analyzeRank int
	// analyzeStart is the match start (RFC 3339); zero uses the first event.
	analyzeStart string
	// analyzeNoStore skips writing the result to the database.
	analyzeNoStore bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <telemetry.json>",
	Short: "Analyse a local telemetry file for a squad",
	Long: `Analyse a telemetry file (plain, gzip or zstd JSON) for the given squad,
print the breakdown and store it.

Example:
  pubgcoach analyze match.json.gz --players alpha,bravo,charlie --rank 12`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringSliceVarP(&analyzePlayers, "players", "p", nil, "squad player names (comma-separated)")
	analyzeCmd.Flags().StringVar(&analyzeMatchID, "match-id", "", "match id (default: file name)")
	analyzeCmd.Flags().IntVar(&analyzeRank, "rank", 0, "squad final placement")
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "match start time, RFC 3339")
	analyzeCmd.Flags().BoolVar(&analyzeNoStore, "no-store", false, "do not store the analysis")
	analyzeCmd.MarkFlagRequired("players")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	events, err := telemetry.LoadFile(path)
	if err != nil {
		return err
	}

	in := analyzer.Input{
		MatchID:  analyzeMatchID,
		Roster:   analyzePlayers,
		TeamRank: analyzeRank,
		Events:   events,
	}
	if in.MatchID == "" {
		in.MatchID = matchIDFromPath(path)
	}
	if analyzeStart != "" {
		in.MatchStart, err = time.Parse(time.RFC3339, analyzeStart)
		if err != nil {
			return fmt.Errorf("invalid --start %q: %w", analyzeStart, err)
		}
	}

	ma, err := analyzer.New(logger).Analyze(cmd.Context(), in)
	if err != nil {
		return err
	}
	report.PrintAnalysis(os.Stdout, ma)

	if analyzeNoStore {
		return nil
	}
	return storeAnalysis(ma)
}

// storeAnalysis writes ma to the configured database.
func storeAnalysis(ma *model.MatchAnalysis) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.InsertAnalysis(ma, time.Now())
	if err != nil {
		return fmt.Errorf("store analysis: %w", err)
	}
	logger.Info("stored analysis", zap.String("match_id", ma.MatchID), zap.String("run_id", runID))
	fmt.Fprintf(os.Stdout, "Stored %s (run %s)\n", ma.MatchID, runID)
	return nil
}

func matchIDFromPath(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".gz", ".zst", ".json"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
