package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unitworks/servitor/internal/fsutil"
	"github.com/unitworks/servitor/internal/unit"
	"github.com/unitworks/servitor/internal/unitfile"
)

var editCmd = &cobra.Command{
	Use:   "edit NAME",
	Short: "Edit a managed service's unit file",
	Long: "Open the unit file of a managed service in your editor, validate the\n" +
		"result and reload the manager. A service without a unit file starts\n" +
		"from a template. The editor comes from $VISUAL, then $EDITOR, then the\n" +
		"config file, then vi.",
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	name, err := unit.ParseName(args[0])
	if err != nil {
		return fmt.Errorf("servitor edit: %w", err)
	}

	cfg, cc, err := localSetup()
	if err != nil {
		return fmt.Errorf("servitor edit: %w", err)
	}
	scope := cfg.ManagerScope()

	// 1. Resolve with the write checks up front, so a read-only directory
	// fails before the user has spent time in the editor.
	path, err := cfg.Resolver().ResolveForWrite(name, cc.UnitSuffix, scope)
	if err != nil {
		return fmt.Errorf("servitor edit: %w", err)
	}

	// 2. Load the current unit file, or seed a template for a new service.
	fresh := false
	original, err := os.ReadFile(path.String())
	if errors.Is(err, os.ErrNotExist) {
		fresh = true
		original = []byte(unitfile.Render(editSeed(name), scope))
	} else if err != nil {
		return fmt.Errorf("servitor edit: %w", err)
	}

	// 3. Round-trip through the editor on a temp copy. The real file is only
	// touched once the result validates.
	tmp, err := os.CreateTemp("", "servitor-"+string(name)+"-*.service")
	if err != nil {
		return fmt.Errorf("servitor edit: %w", err)
	}
	tmpPath := tmp.Name()
	keepDraft := false
	defer func() {
		if !keepDraft {
			os.Remove(tmpPath)
		}
	}()
	if _, err := tmp.Write(original); err != nil {
		tmp.Close()
		return fmt.Errorf("servitor edit: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("servitor edit: %w", err)
	}

	if err := runEditor(editorCommand(cfg.Editor), tmpPath); err != nil {
		return fmt.Errorf("servitor edit: %w", err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("servitor edit: %w", err)
	}

	out := cmd.OutOrStdout()
	if bytes.Equal(edited, original) {
		if fresh {
			fmt.Fprintln(out, "Template left unchanged; nothing written.")
		} else {
			fmt.Fprintln(out, "No changes.")
		}
		return nil
	}

	// 4. Validate before writing; a rejected draft is kept so the work is
	// not lost.
	def, err := unitfile.Parse(string(edited))
	if err == nil {
		err = def.Validate()
	}
	if err != nil {
		keepDraft = true
		return fmt.Errorf("servitor edit: %w (draft kept at %s)", err, tmpPath)
	}

	// 5. Write the edited bytes as given. Re-rendering would discard the
	// user's comments and any directives this tool does not generate.
	if err := os.MkdirAll(path.Dir, 0o755); err != nil {
		return fmt.Errorf("servitor edit: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path.Dir, path.Unit, edited, 0o644); err != nil {
		return fmt.Errorf("servitor edit: %w", err)
	}
	fmt.Fprintf(out, "Service %s updated at %s.\n", name, path)

	// 6. Reload so the manager picks the change up.
	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return fmt.Errorf("servitor edit: %s updated but the manager was not reloaded: %w", name, err)
	}
	defer sess.Close()
	if err := sess.ctrl.Reload(ctx); err != nil {
		return fmt.Errorf("servitor edit: %w", err)
	}
	return nil
}

// editSeed is the definition behind the template offered for new services.
func editSeed(name unit.Name) unit.Definition {
	return unit.Definition{
		Description: string(name) + " service",
		ExecStart:   "/usr/bin/true",
	}
}

// editorCommand picks the editor: $VISUAL, then $EDITOR, then the config
// file's editor, then vi.
func editorCommand(configured string) string {
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	if configured != "" {
		return configured
	}
	return "vi"
}

// runEditor launches the editor attached to the terminal. The command may
// carry its own arguments, e.g. "code --wait".
func runEditor(editor, file string) error {
	parts := strings.Fields(editor)
	c := exec.Command(parts[0], append(parts[1:], file)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", parts[0], err)
	}
	return nil
}
