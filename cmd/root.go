package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pable/go-pubg-coach/internal/config"
	"github.com/pable/go-pubg-coach/internal/storage"
)

var (
	cfgFile string
	cfg     config.Config
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "pubgcoach",
	Short: "PUBG match telemetry coach",
	Long: `Analyse PUBG match telemetry for a squad: combat, positioning,
looting and teamwork breakdowns, scores and prioritised coaching tips.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $HOME/.pubgcoach.yaml)")
	pf.String("db", config.DefaultDB, "path to SQLite database")
	pf.BoolP("verbose", "v", false, "verbose logging")
	pf.String("api-key", "", "PUBG API key (env PUBGCOACH_API_KEY)")
	pf.String("shard", config.DefaultShard, "PUBG platform shard")

	viper.BindPFlag(config.KeyDB, pf.Lookup("db"))
	viper.BindPFlag(config.KeyVerbose, pf.Lookup("verbose"))
	viper.BindPFlag(config.KeyAPIKey, pf.Lookup("api-key"))
	viper.BindPFlag(config.KeyShard, pf.Lookup("shard"))

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(tipsCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// setup resolves configuration and the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}
	c, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = c

	l, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = l
	logger.Debug("config loaded",
		zap.String("db", cfg.DBPath),
		zap.String("shard", cfg.Shard),
		zap.String("config_file", v.ConfigFileUsed()),
	)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

func openDB() (*storage.DB, error) {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
