package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"jsstyle/internal/config"
	"jsstyle/internal/errors"
	"jsstyle/internal/lint"
	"jsstyle/internal/slogutil"
	_ "jsstyle/internal/sortkeys" // registers sort-keys
	"jsstyle/internal/version"
)

var (
	// configPath is the --config flag value
	configPath string
	verbosity  int
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "jsstyle",
	Short: "jsstyle - style rules for JavaScript and TypeScript",
	Long: `jsstyle checks JavaScript and TypeScript sources against style rules and
rewrites them when a rule knows how. The built-in sort-keys rule requires
object literal keys to be sorted.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("jsstyle version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Config file (default: .jsstyle.{json,yaml,yml,toml} in the working directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Log more (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress log output")
}

// session is the loaded configuration and logger shared by commands.
type session struct {
	cfg        *config.Config
	configFile string
	root       string
	logger     *slog.Logger
	closers    []io.Closer
}

// openSession loads the configuration and builds the logger. Logs go to
// stderr and, when logging.file is set, to a rotating file as well.
func openSession() (*session, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg, used, err := config.LoadConfig(root, configPath)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, configFile: used, root: root}
	s.logger, err = s.newLogger()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Configuration loaded",
		"file", used,
		"rules", len(cfg.Rules),
	)
	return s, nil
}

func (s *session) newLogger() (*slog.Logger, error) {
	level := slogutil.LevelFromString(s.cfg.Logging.Level)
	if verbosity > 0 || quiet {
		level = slogutil.LevelFromVerbosity(verbosity, quiet)
	}

	var handler slog.Handler = slogutil.NewHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	if s.cfg.Logging.File != "" {
		// The file follows logging.level regardless of -v and -q
		fileLevel := slogutil.LevelFromString(s.cfg.Logging.Level)
		fh, closer, err := slogutil.NewFileHandler(s.cfg.Logging.File, fileLevel, s.cfg.Logging.MaxSize, s.cfg.Logging.MaxBackups)
		if err != nil {
			return nil, errors.New(errors.ConfigInvalid, "cannot log to "+s.cfg.Logging.File, err)
		}
		s.closers = append(s.closers, closer)
		handler = slogutil.NewTeeHandler(handler, fh)
	}
	return slog.New(handler), nil
}

// activeRules validates the configuration and resolves its rules.
func (s *session) activeRules() ([]lint.ActiveRule, error) {
	if err := s.cfg.Validate(lint.DefaultRegistry); err != nil {
		if errors.CodeOf(err) != "" {
			return nil, err
		}
		return nil, errors.New(errors.ConfigInvalid, "invalid configuration", err)
	}
	return lint.Configure(lint.DefaultRegistry, s.cfg.Settings())
}

func (s *session) Close() {
	for _, c := range s.closers {
		_ = c.Close()
	}
}
