package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/comps/internal/dataset"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the dataset from upstream leaderboards",
	Long: `Fetches the Statcast and FanGraphs leaderboards for the configured
season range, merges them into player-season and pitch-type tables,
saves them to Postgres, and fits the similarity engines.

The season range and qualification floors come from DATASET_* env vars.

Example:
  go run ./cmd/comps build
  go run ./cmd/comps build --env production`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Comps Dataset Build ===")

	rt, cleanup, err := newRuntime()
	if err != nil {
		return err
	}
	defer cleanup()

	rt.refresher.OnProgress = func(event dataset.ProgressEvent) {
		switch event.Stage {
		case "failed":
			fmt.Printf("  %-8s %s: %s\n", event.Stage, event.PlayerType, event.Error)
		case "fitting", "done":
			fmt.Printf("  %-8s\n", event.Stage)
		default:
			fmt.Printf("  %-8s %s (%d rows)\n", event.Stage, event.PlayerType, event.Rows)
		}
	}

	fmt.Printf("Seasons %d-%d\n\n", rt.cfg.Dataset.StartSeason, rt.cfg.Dataset.EndSeason)

	if err := rt.refresher.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("dataset build failed: %w", err)
	}

	status, err := rt.refresher.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("read dataset status: %w", err)
	}

	fmt.Printf("\nBuild complete: %d batter rows, %d pitcher rows\n",
		status.BatterRows, status.PitcherRows)
	return nil
}
