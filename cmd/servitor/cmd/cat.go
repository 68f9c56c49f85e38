package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unitworks/servitor/internal/unit"
)

var catCmd = &cobra.Command{
	Use:   "cat NAME",
	Short: "Print a managed service's unit file",
	Long:  "Print the unit file of a managed service exactly as it is on disk.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	name, err := unit.ParseName(args[0])
	if err != nil {
		return fmt.Errorf("servitor cat: %w", err)
	}

	cfg, cc, err := localSetup()
	if err != nil {
		return fmt.Errorf("servitor cat: %w", err)
	}
	path, err := cfg.Resolver().Resolve(name, cc.UnitSuffix, cfg.ManagerScope())
	if err != nil {
		return fmt.Errorf("servitor cat: %w", err)
	}

	data, err := os.ReadFile(path.String())
	if err != nil {
		return fmt.Errorf("servitor cat: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", path)
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("servitor cat: %w", err)
	}
	return nil
}
