package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitworks/servitor/internal/unit"
)

var stopCmd = &cobra.Command{
	Use:   "stop NAME",
	Short: "Stop a managed service",
	Args:  cobra.ExactArgs(1),
	RunE:  runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	name, err := unit.ParseName(args[0])
	if err != nil {
		return fmt.Errorf("servitor stop: %w", err)
	}

	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return fmt.Errorf("servitor stop: %w", err)
	}
	defer sess.Close()

	st, err := sess.ctrl.Stop(ctx, name)
	if err != nil {
		return fmt.Errorf("servitor stop: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Service %s is %s.\n", name, formatState(st))
	return nil
}
