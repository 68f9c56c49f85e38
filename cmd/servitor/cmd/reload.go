package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the service manager's unit files",
	Long: "Ask the service manager to re-read all unit files from disk. Useful\n" +
		"after editing a unit file by hand.",
	Args: cobra.NoArgs,
	RunE: runReload,
}

func init() {
	rootCmd.AddCommand(reloadCmd)
}

func runReload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return fmt.Errorf("servitor reload: %w", err)
	}
	defer sess.Close()

	if err := sess.ctrl.Reload(ctx); err != nil {
		return fmt.Errorf("servitor reload: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Unit files reloaded.")
	return nil
}
