package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitworks/servitor/internal/unit"
)

var enableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Enable a managed service to start at boot",
	Long:  "Enable a managed service to start at boot. The running state is unaffected.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnable,
}

func init() {
	rootCmd.AddCommand(enableCmd)
}

func runEnable(cmd *cobra.Command, args []string) error {
	name, err := unit.ParseName(args[0])
	if err != nil {
		return fmt.Errorf("servitor enable: %w", err)
	}

	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return fmt.Errorf("servitor enable: %w", err)
	}
	defer sess.Close()

	if err := sess.ctrl.Enable(ctx, name); err != nil {
		return fmt.Errorf("servitor enable: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Service %s enabled at boot.\n", name)
	return nil
}
