package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"jsstyle/internal/cache"
	"jsstyle/internal/jsast"
	"jsstyle/internal/lint"
	"jsstyle/internal/paths"
)

var (
	lintFix         bool
	lintDiff        bool
	lintFormat      string
	lintCache       bool
	lintMaxWarnings int
	lintWorkers     int
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Check JavaScript and TypeScript files",
	Long: `Lint files and directories (default: the working directory).

Directories are walked recursively; node_modules, vendor and dot directories
are skipped, and files.include/files.exclude from the configuration apply.

Examples:
  jsstyle lint                     # Lint the working directory
  jsstyle lint src --fix           # Rewrite files with the available fixes
  jsstyle lint src --diff          # Show the fixes as a diff, write nothing
  jsstyle lint --format sarif .    # SARIF 2.1.0 for code scanning`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().BoolVar(&lintFix, "fix", false, "Write fixes back to the files")
	lintCmd.Flags().BoolVar(&lintDiff, "diff", false, "Print fixes as a unified diff without writing them")
	lintCmd.Flags().StringVarP(&lintFormat, "format", "f", "text", "Output format (text, json, sarif)")
	lintCmd.Flags().BoolVar(&lintCache, "cache", false, "Reuse results for unchanged files (also cache.enabled)")
	lintCmd.Flags().IntVar(&lintMaxWarnings, "max-warnings", -1, "Fail when more warnings are reported (-1: no limit)")
	lintCmd.Flags().IntVarP(&lintWorkers, "workers", "j", 0, "Files linted in parallel (default: workers from config, then CPU count)")
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	format, err := ParseOutputFormat(lintFormat)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	rules, err := s.activeRules()
	if err != nil {
		return err
	}
	if !jsast.IsAvailable() {
		return jsast.ErrNoCGO
	}

	if len(args) == 0 {
		args = []string{"."}
	}
	files, err := paths.Discover(args, paths.Options{
		Extensions: s.cfg.Files.Extensions,
		Include:    s.cfg.Files.Include,
		Exclude:    s.cfg.Files.Exclude,
	})
	if err != nil {
		return err
	}
	s.logger.Info("Linting files", "files", len(files), "rules", len(rules))

	runCfg := lint.DefaultRunnerConfig()
	if w := resolveWorkers(lintWorkers, s.cfg.Workers); w > 0 {
		runCfg.WorkerCount = w
	}
	runCfg.Fix = lintFix || lintDiff

	if lintCache || s.cfg.Cache.Enabled {
		c, err := cache.Open(s.cfg.Cache.Path, cacheFingerprint(s.cfg), s.logger)
		if err != nil {
			s.logger.Warn("Cache disabled", "error", err)
		} else {
			defer c.Close()
			runCfg.Cache = c
			defer func() {
				st := c.Stats()
				s.logger.Info("Cache statistics", "hits", st.Hits, "misses", st.Misses)
			}()
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runner := lint.NewRunner(newParser, rules, s.logger, runCfg)
	results := runner.Run(ctx, files)

	if lintFix {
		if err := writeFixes(results); err != nil {
			return err
		}
	}

	report := buildReport(results, s.root, lintDiff)
	if err := writeReport(cmd.OutOrStdout(), report, format, rules); err != nil {
		return err
	}

	if code := exitCode(report.Summary, lintMaxWarnings); code != exitOK {
		return &exitError{code: code}
	}
	return ctx.Err()
}

func newParser() lint.Parser {
	return jsast.NewParser()
}

// resolveWorkers applies precedence: flag, then config; 0 means default.
func resolveWorkers(flag, configured int) int {
	if flag > 0 {
		return flag
	}
	return configured
}

// writeFixes writes every changed file back with its original permissions.
func writeFixes(results []lint.FileResult) error {
	for _, fr := range results {
		if fr.Err != nil || !fr.Result.Changed(fr.Original) {
			continue
		}
		info, err := os.Stat(fr.Path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(fr.Path, fr.Result.Source, info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", fr.Path, err)
		}
	}
	return nil
}

// exitCode reports problems for any error or failed file. Warnings only
// count past maxWarnings; a negative limit never fails.
func exitCode(s Summary, maxWarnings int) int {
	if s.Errors > 0 || s.Failed > 0 {
		return exitProblems
	}
	if maxWarnings >= 0 && s.Warnings > maxWarnings {
		return exitProblems
	}
	return exitOK
}
