package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitworks/servitor/internal/unit"
)

var startCmd = &cobra.Command{
	Use:   "start NAME",
	Short: "Start a managed service",
	Args:  cobra.ExactArgs(1),
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	name, err := unit.ParseName(args[0])
	if err != nil {
		return fmt.Errorf("servitor start: %w", err)
	}

	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return fmt.Errorf("servitor start: %w", err)
	}
	defer sess.Close()

	st, err := sess.ctrl.Start(ctx, name)
	if err != nil {
		return fmt.Errorf("servitor start: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Service %s is %s.\n", name, formatState(st))
	return nil
}
