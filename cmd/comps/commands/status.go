package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show dataset status",
	Long: `Shows the stored dataset row counts and the latest build per table.

Example:
  go run ./cmd/comps status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, cleanup, err := newRuntime()
	if err != nil {
		return err
	}
	defer cleanup()

	status, err := rt.refresher.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("read dataset status: %w", err)
	}

	fmt.Println("=== Comps Dataset Status ===")
	fmt.Printf("Batter rows:  %d\n", status.BatterRows)
	fmt.Printf("Pitcher rows: %d\n", status.PitcherRows)
	fmt.Printf("Refreshing:   %v\n", status.Running)

	if len(status.LatestBuilds) == 0 {
		fmt.Println("\nNo builds recorded yet")
		return nil
	}

	fmt.Println("\nLatest builds:")
	for _, build := range status.LatestBuilds {
		line := fmt.Sprintf("  %-8s %-10s %d rows, started %s",
			build.PlayerType, build.Status, build.Rows,
			build.StartedAt.Format(time.RFC3339))
		if build.Error != "" {
			line += " (" + build.Error + ")"
		}
		fmt.Println(line)
	}
	return nil
}
