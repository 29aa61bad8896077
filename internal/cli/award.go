package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transforma-app/transforma/internal/daemon"
	"github.com/transforma-app/transforma/internal/domain"
)

func init() {
	awardCmd.Flags().BoolVar(&awardCreate, "create", false, "Create the score profile if missing")
	rootCmd.AddCommand(awardCmd)
}

var awardCreate bool

var awardCmd = &cobra.Command{
	Use:   "award USER ACTION",
	Short: "Grant a score action to a user",
	Long: `Grant a score action to a user, e.g.:

  transforma award maria FOCUS_SESSION
  transforma award joao CHALLENGE_COMPLETED`,
	Args: cobra.ExactArgs(2),
	RunE: runAward,
}

func runAward(cmd *cobra.Command, args []string) error {
	userID := args[0]
	key := domain.ActionKey(args[1])

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	if awardCreate {
		if err := d.DB.CreateProfile(userID); err != nil {
			return err
		}
	}

	result, err := d.Engine.GrantAction(userID, key)
	if err != nil {
		return err
	}

	if result.Granted == 0 {
		fmt.Printf("Nothing granted — %s has no score profile (use --create)\n", userID)
		return nil
	}

	fmt.Printf("Granted %d points to %s (%s)\n", result.Granted, userID, key)
	fmt.Printf("Total: %d points, level %d\n", result.State.Points, result.State.Level)
	if result.LeveledUp {
		fmt.Printf("Level up! Now level %d\n", result.State.Level)
	}
	for _, def := range result.Unlocked {
		fmt.Printf("Unlocked: %s %s (+%d pts)\n", def.Emoji, def.Title, def.RewardPoints)
	}

	return nil
}
