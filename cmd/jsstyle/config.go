package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jsstyle/internal/config"
	"jsstyle/internal/lint"
)

var (
	configFormat string
	configForce  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage jsstyle configuration",
	Long:  "View, create and check the .jsstyle.{json,yaml,yml,toml} configuration.",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the configuration after defaults and environment overrides.

Examples:
  jsstyle config show                # YAML
  jsstyle config show --format toml  # TOML`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report every configuration problem",
	RunE:  runConfigValidate,
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Run: func(cmd *cobra.Command, args []string) {
		printEnvVars(cmd.OutOrStdout())
	},
}

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format (yaml, json, toml)")
	configInitCmd.Flags().StringVar(&configFormat, "format", "yaml", "File format (yaml, json, toml)")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configEnvCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	data, err := s.cfg.Marshal(configFormat)
	if err != nil {
		return err
	}
	if s.configFile != "" {
		s.logger.Info("Configuration file", "path", s.configFile)
	} else {
		s.logger.Info("No configuration file found, showing defaults")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.FileBaseName + "." + configFormat
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	problems := s.cfg.Problems(lint.DefaultRegistry)
	source := s.configFile
	if source == "" {
		source = "defaults"
	}
	if len(problems) == 0 {
		fmt.Fprintf(out, "%s: ok\n", source)
		return nil
	}

	fmt.Fprintf(out, "%s: %d problem(s)\n", source, len(problems))
	for _, p := range problems {
		fmt.Fprintf(out, "  - %v\n", p)
	}
	return &exitError{code: exitProblems}
}

// envVars lists the scalar settings environment variables can override.
var envVars = []struct {
	key  string
	desc string
}{
	{"workers", "Files linted in parallel"},
	{"cache.enabled", "Enable the result cache (true/false)"},
	{"cache.path", "Result cache database"},
	{"logging.level", "Log level (debug, info, warn, error)"},
	{"logging.file", "Also log to this file"},
	{"logging.maxSize", "Rotate the log file at this size, e.g. 10MiB (default 100MB)"},
	{"logging.maxBackups", "Rotated log files to keep"},
}

// envName maps a config key to its environment variable.
func envName(key string) string {
	return config.EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

func printEnvVars(w io.Writer) {
	for _, v := range envVars {
		fmt.Fprintf(w, "%-28s %s\n", envName(v.key), v.desc)
	}
}
