package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/unitworks/servitor/internal/control"
	"github.com/unitworks/servitor/internal/unit"
)

var (
	listState    string
	listEnabled  bool
	listDisabled bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed services",
	Long: "List every managed service: those with a unit file on disk and those\n" +
		"the manager still remembers. Other units on the system are not shown.",
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listState, "state", "", "only services in this state (active, inactive, failed, ...)")
	listCmd.Flags().BoolVar(&listEnabled, "enabled", false, "only services that start at boot")
	listCmd.Flags().BoolVar(&listDisabled, "disabled", false, "only services that do not start at boot")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := listFilter()
	if err != nil {
		return fmt.Errorf("servitor list: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	sess, err := newSession(ctx)
	if err != nil {
		return fmt.Errorf("servitor list: %w", err)
	}
	defer sess.Close()

	statuses, err := sess.ctrl.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("servitor list: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(statuses) == 0 {
		fmt.Fprintln(out, "No managed services.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tENABLED\tPID\tMEMORY\tCPU")
	for _, st := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			st.Name,
			formatState(st),
			formatEnabled(st),
			formatPID(st.MainPID),
			formatBytes(st.MemoryBytes),
			formatCPU(st.CPUNanos),
		)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("servitor list: %w", err)
	}
	return nil
}

// listFilter folds the filter flags into a control.Filter, rejecting
// combinations that cannot match anything.
func listFilter() (control.Filter, error) {
	if listEnabled && listDisabled {
		return control.Filter{}, &unit.ValidationError{Field: "list filter", Reason: "--enabled and --disabled are mutually exclusive"}
	}
	f := control.Filter{State: unit.ActiveState(listState)}
	switch {
	case listEnabled:
		yes := true
		f.Enabled = &yes
	case listDisabled:
		no := false
		f.Enabled = &no
	}
	return f, nil
}
