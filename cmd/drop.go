package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes the analysis database along with its WAL sidecar files.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the analysis database",
	Long:  "Permanently delete the SQLite analysis database and its -wal/-shm files. All stored matches are lost; re-run analyze or fetch to rebuild.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete %s and its -wal/-shm files.\n", cfg.DBPath)
		fmt.Fprintln(os.Stderr, "Re-run with --force to confirm.")
		return nil
	}

	removed, err := removeDatabase(cfg.DBPath)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
		return nil
	}
	for _, p := range removed {
		fmt.Fprintf(os.Stdout, "Deleted: %s\n", p)
	}
	return nil
}

// removeDatabase deletes the database file and its WAL sidecars and returns
// the paths it removed. Missing files are skipped.
func removeDatabase(path string) ([]string, error) {
	var removed []string
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed = append(removed, p)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return removed, fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return removed, nil
}
