package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opsdeck/daemonctl/internal/config"
	"github.com/opsdeck/daemonctl/internal/tui"
	"github.com/opsdeck/daemonctl/internal/validate"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for command wiring in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	rootCmd = &cobra.Command{
		Use:   "daemonctl [ADDRESS]",
		Short: "Interactive terminal console for controlling and observing a daemon.",
		Long: `daemonctl opens a full-screen dashboard for one daemon: live status and
metrics panels, a control list for the Start/Stop/Restart/Reload lifecycle
commands, and a scrolling activity log. The optional ADDRESS argument
overrides the configured daemon address (HOST:PORT).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runConsole,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr; stdout belongs to the terminal renderer.
	logrus.SetOutput(os.Stderr)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func runConsole(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(args) == 1 && args[0] != "" {
		if err := validate.Var(args[0], "hostname_port"); err != nil {
			return fmt.Errorf("invalid daemon address %q: expected HOST:PORT", args[0])
		}
		cfg.Address = args[0]
	}

	if err := setupLogging(cfg); err != nil {
		return err
	}

	return tui.Run(cfg)
}

// setupLogging points the activity mirror at the configured file. Without
// one, logrus stays on stderr and the TUI silences it while it owns the
// terminal.
func setupLogging(cfg config.Config) error {
	if cfg.LogFile == "" {
		return nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", cfg.LogFile, err)
	}
	logrus.SetOutput(f)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
