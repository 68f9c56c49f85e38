package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/unitworks/servitor/internal/unit"
)

var (
	createName        string
	createDescription string
	createWorkdir     string
	createRunAs       string
	createInterpreter string
	createRestart     string
	createEnvs        []string
	createEnvFile     string
	createOverwrite   bool
	createEnable      bool
	createStart       bool
)

var createCmd = &cobra.Command{
	Use:   "create PROGRAM [ARG...]",
	Short: "Define a new service for a program",
	Long: "Create a systemd service that runs the given program. The service name is\n" +
		"derived from the program's file name unless --name is given. Interpreted\n" +
		"programs run through their interpreter: node for .js, python3 for .py, or\n" +
		"whatever --interpreter names.",
	Args: cobra.MinimumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "service name (default: program file name without extension)")
	createCmd.Flags().StringVar(&createDescription, "description", "", "unit description")
	createCmd.Flags().StringVar(&createWorkdir, "workdir", "", "working directory (default: the program's directory)")
	createCmd.Flags().StringVar(&createRunAs, "run-as", "", "system user to run the service as (default: $SUDO_USER if set)")
	createCmd.Flags().StringVar(&createInterpreter, "interpreter", "", "interpreter executable for the program")
	createCmd.Flags().StringVar(&createRestart, "restart", "never", "restart policy: never, on-failure or always")
	createCmd.Flags().StringArrayVar(&createEnvs, "env", nil, "environment variable KEY=VALUE (repeatable)")
	createCmd.Flags().StringVar(&createEnvFile, "env-file", "", "file with KEY=VALUE lines to load into the environment")
	createCmd.Flags().BoolVar(&createOverwrite, "overwrite", false, "replace an existing identical definition")
	createCmd.Flags().BoolVar(&createEnable, "enable", false, "also enable the service to start at boot")
	createCmd.Flags().BoolVar(&createStart, "start", false, "also start the service")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	// 1. Resolve the program and derive the service name.
	program, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("servitor create: %w", err)
	}
	info, err := os.Stat(program)
	if err != nil {
		return fmt.Errorf("servitor create: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("servitor create: %s is not a regular file", program)
	}

	rawName := createName
	if rawName == "" {
		rawName = deriveName(program)
	}
	name, err := unit.ParseName(rawName)
	if err != nil {
		return fmt.Errorf("servitor create: %w", err)
	}

	// 2. Assemble the definition.
	execStart, err := buildExecStart(program, createInterpreter, args[1:])
	if err != nil {
		return fmt.Errorf("servitor create: %w", err)
	}
	env, err := collectEnv(createEnvFile, createEnvs)
	if err != nil {
		return fmt.Errorf("servitor create: %w", err)
	}
	restart, err := unit.ParseRestartPolicy(createRestart)
	if err != nil {
		return fmt.Errorf("servitor create: %w", err)
	}
	workdir := createWorkdir
	if workdir == "" {
		workdir = filepath.Dir(program)
	}
	runAs := createRunAs
	if runAs == "" {
		// Under sudo the service should run as the invoking user, not
		// as root.
		runAs = os.Getenv("SUDO_USER")
	}

	def := unit.Definition{
		ExecStart:        execStart,
		Description:      createDescription,
		WorkingDirectory: workdir,
		Environment:      env,
		User:             runAs,
		Restart:          restart,
	}

	// 3. Write the unit and make the manager load it.
	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return fmt.Errorf("servitor create: %w", err)
	}
	defer sess.Close()

	if err := sess.ctrl.Create(ctx, name, def, createOverwrite); err != nil {
		return fmt.Errorf("servitor create: %w", err)
	}

	out := cmd.OutOrStdout()
	if path, err := sess.unitPath(name); err == nil {
		fmt.Fprintf(out, "Service %s created at %s.\n", name, path)
	} else {
		fmt.Fprintf(out, "Service %s created.\n", name)
	}

	// 4. Optional follow-ups.
	if createEnable {
		if err := sess.ctrl.Enable(ctx, name); err != nil {
			return fmt.Errorf("servitor create: %w", err)
		}
		fmt.Fprintf(out, "Service %s enabled at boot.\n", name)
	}
	if createStart {
		st, err := sess.ctrl.Start(ctx, name)
		if err != nil {
			return fmt.Errorf("servitor create: %w", err)
		}
		fmt.Fprintf(out, "Service %s is %s.\n", name, formatState(st))
	} else {
		fmt.Fprintf(out, "Start it with `servitor start %s`.\n", name)
	}
	return nil
}

// interpreters maps a file extension to the interpreter that runs it.
var interpreters = map[string]string{
	".js": "node",
	".py": "python3",
}

// deriveName turns a program path into a service name: the file name with
// its extension dropped.
func deriveName(program string) string {
	base := filepath.Base(program)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// buildExecStart assembles the absolute command line for a program. An
// interpreted program resolves its interpreter through $PATH; anything else
// must be executable by itself.
func buildExecStart(program, interpreter string, args []string) (string, error) {
	if interpreter == "" {
		interpreter = interpreters[filepath.Ext(program)]
	}

	parts := make([]string, 0, len(args)+2)
	if interpreter != "" {
		resolved, err := exec.LookPath(interpreter)
		if err != nil {
			return "", fmt.Errorf("interpreter %s not found in $PATH: %w", interpreter, err)
		}
		abs, err := filepath.Abs(resolved)
		if err != nil {
			return "", err
		}
		parts = append(parts, abs)
	} else {
		info, err := os.Stat(program)
		if err != nil {
			return "", err
		}
		if info.Mode()&0o111 == 0 {
			return "", fmt.Errorf("%s is not executable, pass an interpreter with --interpreter", program)
		}
	}
	parts = append(parts, program)
	parts = append(parts, args...)
	return strings.Join(parts, " "), nil
}

// collectEnv merges an optional env file with --env pairs, the explicit
// pairs winning on duplicate keys.
func collectEnv(file string, pairs []string) (map[string]string, error) {
	env := map[string]string{}
	if file != "" {
		fromFile, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("read env file %s: %w", file, err)
		}
		for k, v := range fromFile {
			env[k] = v
		}
	}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed --env %q, want KEY=VALUE", pair)
		}
		env[k] = v
	}
	if len(env) == 0 {
		return nil, nil
	}
	return env, nil
}
