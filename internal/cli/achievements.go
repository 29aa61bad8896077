package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transforma-app/transforma/internal/app/scoring"
	"github.com/transforma-app/transforma/internal/daemon"
	"github.com/transforma-app/transforma/internal/domain"
)

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements USER",
	Short: "List the achievement catalog with a user's unlock state",
	Args:  cobra.ExactArgs(1),
	RunE:  runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	userID := args[0]

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	state, err := d.DB.UserScoreState(userID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return err
	}

	var category domain.AchievementCategory
	for _, def := range scoring.AllAchievements() {
		if def.Category != category {
			category = def.Category
			fmt.Printf("\n%s\n", category)
		}
		mark := " "
		if state.HasAchievement(def.ID) {
			mark = "✓"
		}
		fmt.Printf("  [%s] %s %-20s %5d pts  (%s, requires %d)\n",
			mark, def.Emoji, def.Title, def.RewardPoints, def.Rarity, def.Requirement)
	}
	fmt.Printf("\nUnlocked: %d/%d\n", len(state.UnlockedIDs), len(scoring.AllAchievements()))

	return nil
}
