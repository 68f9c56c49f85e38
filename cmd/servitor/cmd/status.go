package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/unitworks/servitor/internal/unit"
)

var statusCmd = &cobra.Command{
	Use:   "status NAME",
	Short: "Show the state of a managed service",
	Long: "Query the service manager for the state of one managed service and\n" +
		"print it together with resource figures where available.",
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	name, err := unit.ParseName(args[0])
	if err != nil {
		return fmt.Errorf("servitor status: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	sess, err := newSession(ctx)
	if err != nil {
		return fmt.Errorf("servitor status: %w", err)
	}
	defer sess.Close()

	st, err := sess.ctrl.Status(ctx, name)
	if err != nil {
		return fmt.Errorf("servitor status: %w", err)
	}
	printStatus(cmd.OutOrStdout(), st)
	return nil
}

func printStatus(w io.Writer, st unit.Status) {
	fmt.Fprintf(w, "Service:     %s\n", st.Name)
	fmt.Fprintf(w, "Unit:        %s\n", st.Unit)
	if st.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", st.Description)
	}
	fmt.Fprintf(w, "State:       %s\n", formatState(st))
	fmt.Fprintf(w, "Enabled:     %s\n", formatEnabled(st))

	if st.Lifecycle != unit.LifecycleLoaded {
		return
	}
	fmt.Fprintf(w, "PID:         %s\n", formatPID(st.MainPID))
	fmt.Fprintf(w, "Memory:      %s\n", formatBytes(st.MemoryBytes))
	fmt.Fprintf(w, "CPU:         %s\n", formatCPU(st.CPUNanos))
	fmt.Fprintf(w, "Since:       %s\n", formatSince(st.Since))
	if st.ExitCode != nil {
		fmt.Fprintf(w, "Exit code:   %d\n", *st.ExitCode)
	}
}
