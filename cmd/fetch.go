package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-pubg-coach/internal/analyzer"
	"github.com/pable/go-pubg-coach/internal/pubg"
	"github.com/pable/go-pubg-coach/internal/report"
)

// fetch command flags.
var (
	// fetchPlayers is the squad to analyse.
	fetchPlayers []string
	// fetchRank overrides the placement read from the match rosters.
	fetchRank int
	// fetchForce re-analyses a match that is already stored.
	fetchForce bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <match-id>",
	Short: "Download a match from the PUBG API and analyse it",
	Long: `Fetches match metadata and telemetry from the PUBG API (requires an API
key), analyses it for the given squad and stores the result.

Example:
  pubgcoach fetch 6c8a1f1e-... --players alpha,bravo --shard steam`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringSliceVarP(&fetchPlayers, "players", "p", nil, "squad player names (comma-separated)")
	fetchCmd.Flags().IntVar(&fetchRank, "rank", 0, "squad final placement (default: from match rosters)")
	fetchCmd.Flags().BoolVarP(&fetchForce, "force", "f", false, "re-analyse even if already stored")
	fetchCmd.MarkFlagRequired("players")
}

func runFetch(cmd *cobra.Command, args []string) error {
	matchID := args[0]
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	if !fetchForce {
		db, err := openDB()
		if err != nil {
			return err
		}
		exists, err := db.MatchExists(matchID)
		db.Close()
		if err != nil {
			return fmt.Errorf("check match: %w", err)
		}
		if exists {
			fmt.Fprintf(os.Stdout, "Match %s already stored, skipping (use --force to re-analyse).\n", matchID)
			return nil
		}
	}

	ctx := cmd.Context()
	client := pubg.NewClient(cfg.APIKey, cfg.Shard, logger)
	match, err := client.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	events, err := client.DownloadTelemetry(ctx, match.TelemetryURL)
	if err != nil {
		return err
	}

	rank := fetchRank
	if rank == 0 {
		r, ok := match.RankOf(fetchPlayers)
		if !ok {
			logger.Warn("squad not found in match rosters", zap.Strings("players", fetchPlayers))
		}
		rank = r
	}

	ma, err := analyzer.New(logger).Analyze(ctx, analyzer.Input{
		MatchID:    match.ID,
		MatchStart: match.CreatedAt,
		Roster:     fetchPlayers,
		TeamRank:   rank,
		Events:     events,
	})
	if err != nil {
		return err
	}
	report.PrintAnalysis(os.Stdout, ma)
	return storeAnalysis(ma)
}
