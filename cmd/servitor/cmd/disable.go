package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitworks/servitor/internal/unit"
)

var disableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Stop a managed service from starting at boot",
	Long:  "Clear a managed service's boot enablement. The running state is unaffected.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisable,
}

func init() {
	rootCmd.AddCommand(disableCmd)
}

func runDisable(cmd *cobra.Command, args []string) error {
	name, err := unit.ParseName(args[0])
	if err != nil {
		return fmt.Errorf("servitor disable: %w", err)
	}

	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return fmt.Errorf("servitor disable: %w", err)
	}
	defer sess.Close()

	if err := sess.ctrl.Disable(ctx, name); err != nil {
		return fmt.Errorf("servitor disable: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Service %s disabled at boot.\n", name)
	return nil
}
