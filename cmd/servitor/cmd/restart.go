package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitworks/servitor/internal/unit"
)

var restartCmd = &cobra.Command{
	Use:   "restart NAME",
	Short: "Restart a managed service",
	Long:  "Restart a managed service. An inactive service is started.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestart,
}

func init() {
	rootCmd.AddCommand(restartCmd)
}

func runRestart(cmd *cobra.Command, args []string) error {
	name, err := unit.ParseName(args[0])
	if err != nil {
		return fmt.Errorf("servitor restart: %w", err)
	}

	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return fmt.Errorf("servitor restart: %w", err)
	}
	defer sess.Close()

	st, err := sess.ctrl.Restart(ctx, name)
	if err != nil {
		return fmt.Errorf("servitor restart: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Service %s is %s.\n", name, formatState(st))
	return nil
}
