package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/unitworks/servitor/internal/unit"
)

var (
	logsLines  int
	logsFollow bool
)

var logsCmd = &cobra.Command{
	Use:   "logs NAME",
	Short: "Show a managed service's journal",
	Long: "Show journald output for one managed service. Falls back to a helpful\n" +
		"message if journalctl is unavailable.",
	Args: cobra.ExactArgs(1),
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 0, "number of journal lines to show (default from config)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	name, err := unit.ParseName(args[0])
	if err != nil {
		return fmt.Errorf("servitor logs: %w", err)
	}

	cfg, cc, err := localSetup()
	if err != nil {
		return fmt.Errorf("servitor logs: %w", err)
	}

	journalctl, err := exec.LookPath("journalctl")
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "journalctl not found; service logs are only available through journald")
		return nil
	}

	lines := logsLines
	if lines <= 0 {
		lines = cfg.JournalLines
	}

	c := exec.Command(journalctl, journalArgs(name.Unit(cc.UnitSuffix), cfg.ManagerScope(), lines, logsFollow)...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		return fmt.Errorf("servitor logs: %w", err)
	}
	return nil
}

// journalArgs builds the journalctl argument list for one unit.
func journalArgs(unitName string, scope unit.Scope, lines int, follow bool) []string {
	args := []string{"-u", unitName, "--no-pager", "-n", strconv.Itoa(lines)}
	if scope == unit.ScopeUser {
		args = append([]string{"--user"}, args...)
	}
	if follow {
		args = append(args, "-f")
	}
	return args
}
