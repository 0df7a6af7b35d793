// Command netsim loads device configurations, builds a topology graph,
// and drives traffic analysis, bring-up, and comprehensive testing
// against a simulated network.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/netsim-forge/netsim/pkg/netutil"
	"github.com/netsim-forge/netsim/pkg/scenlog"
	"github.com/netsim-forge/netsim/pkg/settings"
	"github.com/netsim-forge/netsim/pkg/version"
)

var verboseFlag bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "netsim",
		Short: "Configuration-driven network simulator",
		Long: `Netsim parses a directory of device configuration files into a
connectivity graph, then drives analysis and simulation against it.

  netsim analyze <config-dir>        # build topology, validate, report traffic
  netsim day1 <config-dir>           # run bring-up: interfaces, ARP, OSPF, BGP
  netsim day2 <config-dir>           # run the comprehensive post-bring-up suite
  netsim simulate <config-dir>       # run the live agent simulation
  netsim export topology <config-dir> # write the topology as renderer JSON

analyze, day1 and day2 accept --json to emit their report as JSON instead
of a terminal-formatted summary; export topology always writes JSON.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verboseFlag {
				netutil.SetLogLevel("debug")
			} else {
				netutil.SetLogLevel("warn")
			}
			return initAuditLogger()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newDay1Cmd(),
		newDay2Cmd(),
		newSimulateCmd(),
		newExportCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(version.Info())
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var auditLogger *scenlog.FileLogger

// initAuditLogger opens the JSON-lines event log every subcommand
// records its outcome to, rotating at 10MB with 5 backups kept.
func initAuditLogger() error {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	path := filepath.Join(home, ".netsim", "events.jsonl")

	logger, err := scenlog.NewFileLogger(path, scenlog.RotationConfig{
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 5,
	})
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	scenlog.SetDefaultLogger(logger)
	auditLogger = logger
	return nil
}

// loadSettings reads persistent CLI preferences, falling back to zero
// values (and thus package defaults) if none have been saved yet.
func loadSettings() *settings.Settings {
	s, err := settings.Load()
	if err != nil {
		return &settings.Settings{}
	}
	return s
}

// resolveConfigDir prefers an explicit positional argument, then the
// user's saved default directory, then the package-level default.
func resolveConfigDir(s *settings.Settings, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return s.GetConfigDir()
}

// recordEvent logs a CLI invocation outcome to the audit log,
// swallowing any logging error rather than masking the command result.
func recordEvent(operation, device string, err error) {
	if auditLogger == nil {
		return
	}
	ev := scenlog.NewEvent("cli", device, operation)
	if err != nil {
		ev.WithError(err)
	} else {
		ev.WithSuccess()
	}
	if logErr := auditLogger.Log(ev); logErr != nil {
		netutil.Warnf("failed to write audit event: %v", logErr)
	}
}
