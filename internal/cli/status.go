package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/transforma-app/transforma/internal/app/scoring"
	"github.com/transforma-app/transforma/internal/daemon"
	"github.com/transforma-app/transforma/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status USER",
	Short: "Show a user's score, level and rank",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	userID := args[0]

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	state, err := d.DB.UserScoreState(userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		fmt.Printf("No score profile for %s\n", userID)
		return nil
	}
	if err != nil {
		return err
	}

	level := scoring.LevelInfoForXP(state.XP)
	rank := scoring.RankForPoints(state.Points)
	today, err := d.DB.TodayPoints(userID, time.Now().UTC().Format("2006-01-02"))
	if err != nil {
		return err
	}

	fmt.Printf("User:      %s\n", state.UserID)
	fmt.Printf("Points:    %d (today: %d)\n", state.Points, today)
	fmt.Printf("Rank:      %s %s\n", rank.Emoji, rank.Title)
	fmt.Printf("Level:     %d — %s %s (%.0f%% to next)\n", level.Level, level.Emoji, level.Title, level.Progress)
	fmt.Printf("XP:        %d\n", state.XP)
	fmt.Printf("Badges:    %d/%d\n", len(state.UnlockedIDs), len(scoring.AllAchievements()))

	return nil
}
