package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/joshuapare/partkit/internal/logging"
	"github.com/joshuapare/partkit/internal/report"
	"github.com/joshuapare/partkit/internal/store"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string

	// Resolved in PersistentPreRunE
	cfg *Config
	log = logrus.StandardLogger()
)

var rootCmd = &cobra.Command{
	Use:   "partctl",
	Short: "Simulate fixed-partition memory allocation",
	Long: `partctl manages a table of fixed-size memory partitions. Processes are
placed with a first-fit policy (best-fit and worst-fit are available) and the
table is kept in a state file between invocations, so a sequence of commands
can be used to observe allocation, release and internal fragmentation.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./partctl.yaml if present)")
	rootCmd.PersistentFlags().String("state", "", "State file path")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("lang", "", "Language used to format numbers")

	_ = viper.BindPFlag("state", rootCmd.PersistentFlags().Lookup("state"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("lang", rootCmd.PersistentFlags().Lookup("lang"))
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and initializes logging.
func setup() error {
	c, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cfg = c

	level := cfg.LogLevel
	if verbose && level == "" {
		level = "debug"
	}
	l, err := logging.Init(logging.Options{
		Enabled: level != "",
		Level:   level,
		Format:  cfg.LogFormat,
	})
	if err != nil {
		return err
	}
	log = l
	return nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// newReporter returns a report writer on stdout honoring --json and --quiet.
func newReporter() *report.Writer {
	var out io.Writer = os.Stdout
	if quiet {
		out = io.Discard
	}
	format := report.FormatText
	if jsonOut {
		format = report.FormatJSON
	}
	lang := language.English
	if cfg != nil && cfg.Lang != "" {
		if tag, err := language.Parse(cfg.Lang); err == nil {
			lang = tag
		} else {
			log.WithError(err).Warnf("ignoring unknown language %q", cfg.Lang)
		}
	}
	return report.New(out, format, lang)
}

// openStore returns the store for the configured state file.
func openStore() *store.Store {
	return store.New(cfg.State, log.WithField("state", cfg.State))
}
