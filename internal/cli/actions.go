package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transforma-app/transforma/internal/app/scoring"
)

func init() {
	rootCmd.AddCommand(actionsCmd)
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the score action catalog",
	RunE:  runActions,
}

func runActions(cmd *cobra.Command, args []string) error {
	for _, a := range scoring.AllActions() {
		fmt.Printf("%s %-22s %4d pts  %s\n", a.Emoji, a.Key, a.BasePoints, a.Description)
	}
	return nil
}
