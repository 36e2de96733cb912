package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pitchesCmd represents the pitches command
var pitchesCmd = &cobra.Command{
	Use:   "pitches <mlbam_id> <season>",
	Short: "Show a pitcher's arsenal and per-pitch comps",
	Long: `Prints the pitcher's arsenal for the given season, and for each
pitch type the most similar pitches thrown by other pitchers.

Example:
  go run ./cmd/comps pitches 694973 2024
  go run ./cmd/comps pitches 694973 2024 --top 3`,
	Args: cobra.ExactArgs(2),
	RunE: runPitches,
}

var pitchesTopN int

func init() {
	rootCmd.AddCommand(pitchesCmd)

	// Flags
	pitchesCmd.Flags().IntVar(&pitchesTopN, "top", 5, "number of comps per pitch type")
}

func runPitches(cmd *cobra.Command, args []string) error {
	playerID, season, err := parsePlayerSeasonArgs(args)
	if err != nil {
		return err
	}

	rt, cleanup, err := newRuntime()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := rt.refresher.LoadFromStore(cmd.Context()); err != nil {
		return fmt.Errorf("load dataset from store: %w", err)
	}
	engine := rt.provider.Pitch()
	if engine == nil {
		return fmt.Errorf("no stored pitch dataset, run `comps build` first")
	}

	info := engine.GetPitcherInfo(playerID, season)
	if info == nil {
		return fmt.Errorf("pitcher %d season %d not in the dataset", playerID, season)
	}

	fmt.Printf("=== %s (%d, %d) ===\n", info.Name, playerID, season)
	if info.ArmAngle != nil {
		fmt.Printf("Arm angle: %.1f°\n", *info.ArmAngle)
	}

	pitches := engine.GetPitcherPitches(playerID, season)
	comps := engine.FindSimilarPitches(playerID, season, pitchesTopN)

	for _, pitch := range pitches {
		fmt.Printf("\n%s (%s, %d pitches)\n", pitch.PitchName, pitch.PitchType, pitch.NumPitches)
		if velo, ok := pitch.Metrics["avg_velo"]; ok {
			fmt.Printf("  velo %.1f", velo)
			if ivb, ok := pitch.Metrics["avg_ivb"]; ok {
				fmt.Printf("  ivb %.1f", ivb)
			}
			if stuff, ok := pitch.Metrics["stuff_plus"]; ok {
				fmt.Printf("  stuff+ %.0f", stuff)
			}
			fmt.Println()
		}

		pitchComps := comps[pitch.PitchType]
		if len(pitchComps) == 0 {
			fmt.Println("  no comparable pitches")
			continue
		}
		for i, comp := range pitchComps {
			fmt.Printf("  %d. %-24s %-7d %s  sim %.1f\n",
				i+1, comp.Name, comp.Season, comp.PitchType, comp.Similarity)
		}
	}
	return nil
}
