package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transforma-app/transforma/internal/daemon"
)

func init() {
	rootCmd.AddCommand(streakCmd)
}

var streakCmd = &cobra.Command{
	Use:   "streak USER",
	Short: "Show a user's activity streak",
	Args:  cobra.ExactArgs(1),
	RunE:  runStreak,
}

func runStreak(cmd *cobra.Command, args []string) error {
	userID := args[0]

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	streak, err := d.Streak.Streak(userID)
	if err != nil {
		return err
	}

	if streak.CurrentDays == 0 {
		fmt.Printf("%s has no active streak (longest: %d days)\n", userID, streak.LongestDays)
		return nil
	}

	fmt.Printf("Current:    %d days\n", streak.CurrentDays)
	fmt.Printf("Longest:    %d days\n", streak.LongestDays)
	fmt.Printf("Last day:   %s\n", streak.LastDate.Format("2006-01-02"))
	fmt.Printf("Bonus:      %.0f%%\n", (streak.Multiplier()-1.0)*100)

	return nil
}
