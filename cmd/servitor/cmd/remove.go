package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitworks/servitor/internal/unit"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Delete a managed service",
	Long: "Delete a managed service: its boot enablement, its unit file and the\n" +
		"manager's memory of it. A running service is refused unless --force is\n" +
		"given, in which case it is stopped first.",
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "stop the service first if it is running")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	name, err := unit.ParseName(args[0])
	if err != nil {
		return fmt.Errorf("servitor remove: %w", err)
	}

	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return fmt.Errorf("servitor remove: %w", err)
	}
	defer sess.Close()

	if err := sess.ctrl.Remove(ctx, name, removeForce); err != nil {
		return fmt.Errorf("servitor remove: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Service %s removed.\n", name)
	return nil
}
