package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/comps/internal/contracts"
)

// similarCmd represents the similar command
var similarCmd = &cobra.Command{
	Use:   "similar <mlbam_id> <season>",
	Short: "Find similar player seasons",
	Long: `Finds the most similar player seasons to the given player season,
using the engines fitted from the stored dataset.

Example:
  go run ./cmd/comps similar 592450 2024
  go run ./cmd/comps similar 592450 2024 --top 15
  go run ./cmd/comps similar 434378 2019 --type pitcher`,
	Args: cobra.ExactArgs(2),
	RunE: runSimilar,
}

var (
	similarType       string
	similarTopN       int
	similarSamePlayer bool
)

func init() {
	rootCmd.AddCommand(similarCmd)

	// Flags
	similarCmd.Flags().StringVar(&similarType, "type", "batter", "player type (batter|pitcher)")
	similarCmd.Flags().IntVar(&similarTopN, "top", 10, "number of comps")
	similarCmd.Flags().BoolVar(&similarSamePlayer, "same-player", false, "allow other seasons of the same player")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	playerID, season, err := parsePlayerSeasonArgs(args)
	if err != nil {
		return err
	}

	playerType := contracts.PlayerType(similarType)
	if !playerType.Valid() {
		return fmt.Errorf("invalid player type %q (want batter or pitcher)", similarType)
	}

	rt, cleanup, err := newRuntime()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := rt.refresher.LoadFromStore(cmd.Context()); err != nil {
		return fmt.Errorf("load dataset from store: %w", err)
	}
	engine := rt.provider.Season(playerType)
	if engine == nil {
		return fmt.Errorf("no stored %s dataset, run `comps build` first", playerType)
	}

	profile := engine.GetPlayerSeason(playerID, season)
	if profile == nil {
		return fmt.Errorf("player %d season %d not in the dataset", playerID, season)
	}

	fmt.Printf("=== Comps for %s (%d, %d) ===\n\n", profile.Name, playerID, season)

	comps := engine.FindSimilar(playerID, season, similarTopN, !similarSamePlayer)
	if len(comps) == 0 {
		fmt.Println("No comparable seasons found")
		return nil
	}

	fmt.Printf("%-4s %-24s %-7s %-6s %s\n", "#", "Player", "Season", "Sim", "Distance")
	for i, comp := range comps {
		fmt.Printf("%-4d %-24s %-7d %-6.1f %.4f\n",
			i+1, comp.Name, comp.Season, comp.Similarity, comp.Distance)
	}
	return nil
}

// parsePlayerSeasonArgs parses the shared <mlbam_id> <season> args.
func parsePlayerSeasonArgs(args []string) (playerID, season int, err error) {
	playerID, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid mlbam_id %q", args[0])
	}
	season, err = strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid season %q", args[1])
	}
	return playerID, season, nil
}
