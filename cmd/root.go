// Package cmd provides the command-line interface for the checker, with
// configuration loaded from flags, environment variables, and an optional
// config file in that order of precedence.
//
// Configuration sources:
//
//  1. Command-line flags (--workspace, --threshold, ...) - highest priority
//  2. SVELTE_CHECK_CONFIG environment variable - custom config file path
//  3. Individual environment variables (SVELTE_CHECK_THRESHOLD, ...)
//  4. Configuration file (.svelte-check.yml) - lowest priority
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/svelte-tools/svelte-check-go/internal/config"
	"github.com/svelte-tools/svelte-check-go/internal/logging"
	"github.com/svelte-tools/svelte-check-go/internal/validation"
)

var cfgFile string

// ErrFindings reports that the check completed and found diagnostics at
// or above the failure bar. main maps it to exit code 1; every other
// error maps to exit code 2.
var ErrFindings = errors.New("diagnostics found")

// rootCmd is the base command: running it performs one check (or enters
// watch mode).
var rootCmd = &cobra.Command{
	Use:   "svelte-check",
	Short: "Type, accessibility, and compiler diagnostics for Svelte workspaces",
	Long: `svelte-check discovers the component files in a workspace, converts them
to type-checkable TypeScript, and reports type, accessibility, and
compiler diagnostics against the original source locations.

The pipeline parses each component, runs the internal diagnostic rules,
transforms the component into TypeScript with a source map, stages the
generated files for the TypeScript checker subprocess, merges its
remapped findings with the framework compiler's, and emits one sorted,
deduplicated report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger()
		if cfg.Watch {
			return runWatch(cmd, cfg, log)
		}
		return runCheck(cmd.Context(), cmd.OutOrStdout(), cfg, log, 1)
	},
}

// Execute runs the CLI. A nil return means no findings; ErrFindings
// means findings at or above the failure bar; anything else is an
// invocation or environment failure.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default .svelte-check.yml in the workspace)")
	flags.String("workspace", ".", "workspace root to check")
	flags.String("tsconfig", "", "tsconfig.json the staged project derives from")
	flags.String("cache-dir", "", "cache directory (default .svelte-check-cache)")
	flags.String("threshold", "warning", "minimum severity to report: error or warning")
	flags.Bool("fail-on-warnings", false, "exit nonzero when warnings are found")
	flags.String("output", "human", "output format: human, human-verbose, json, machine")
	flags.StringSlice("ignore", nil, "glob patterns of files to skip (repeatable)")
	flags.Bool("watch", false, "keep running and re-check on file changes")
	flags.StringSlice("diagnostic-sources", nil, "diagnostic sources to consult: internal, typescript, compiler")
	flags.Bool("skip-tsgo", false, "skip the TypeScript checker collaborator")
	flags.Bool("skip-svelte-compiler", false, "skip the framework compiler collaborator")
	flags.String("ts-checker-cmd", "", "TypeScript checker invocation (default \"tsgo\")")
	flags.String("svelte-compiler-cmd", "", "framework compiler invocation (default \"sveltec\")")
	flags.Int("jobs", 0, "parallel pipeline jobs (default: number of CPUs)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")

	bindings := map[string]string{
		"workspace":                        "workspace",
		"tsconfig":                         "tsconfig",
		"cache-dir":                        "cache_dir",
		"threshold":                        "threshold",
		"fail-on-warnings":                 "fail_on_warnings",
		"output":                           "output",
		"ignore":                           "ignore",
		"watch":                            "watch",
		"diagnostic-sources":               "diagnostic_sources",
		"skip-tsgo":                        "skip_tsgo",
		"skip-svelte-compiler":             "skip_svelte_compiler",
		"ts-checker-cmd":                   "collaborators.typescript_command",
		"svelte-compiler-cmd":              "collaborators.compiler_command",
		"jobs":                             "jobs",
		"log-level":                        "log_level",
	}
	for flag, key := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}
}

// initConfig locates and reads the optional config file and wires the
// SVELTE_CHECK_* environment variables into Viper.
func initConfig() {
	if cfgFile == "" {
		cfgFile = os.Getenv("SVELTE_CHECK_CONFIG")
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		workspace := viper.GetString("workspace")
		if workspace == "" {
			workspace = "."
		}
		viper.AddConfigPath(workspace)
		viper.SetConfigName(".svelte-check")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SVELTE_CHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "warning: could not read config file %s: %v\n", cfgFile, err)
		}
	}
}

// loadConfig unmarshals and validates the effective configuration.
// Failures here are invocation errors.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validation.ValidatePath(cfg.Workspace); err != nil {
		return nil, fmt.Errorf("invalid --workspace: %w", err)
	}
	if cfg.TSConfig != "" {
		if err := validation.ValidatePath(cfg.TSConfig); err != nil {
			return nil, fmt.Errorf("invalid --tsconfig: %w", err)
		}
	}
	return cfg, nil
}

func newLogger() logging.Logger {
	logCfg := logging.DefaultConfig()
	// Diagnostics own stdout; log lines go to stderr so json/machine
	// output stays parseable.
	logCfg.Output = os.Stderr
	switch viper.GetString("log_level") {
	case "debug":
		logCfg.Level = logging.LevelDebug
	case "info":
		logCfg.Level = logging.LevelInfo
	case "error":
		logCfg.Level = logging.LevelError
	default:
		logCfg.Level = logging.LevelWarn
	}
	return logging.NewLogger(logCfg)
}
