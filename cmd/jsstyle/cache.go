package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jsstyle/internal/cache"
	"jsstyle/internal/config"
	"jsstyle/internal/version"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the result cache",
	Long:  "Inspect or empty the SQLite result cache at cache.path.",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached results",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := openCache()
		if err != nil {
			return err
		}
		defer done()

		n, err := c.Clear()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached results from %s\n", n, c.Path())
		return nil
	},
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the cache location and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := openCache()
		if err != nil {
			return err
		}
		defer done()

		n, err := c.Len()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Path:    %s\nEntries: %d\n", c.Path(), n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	rootCmd.AddCommand(cacheCmd)
}

// openCache opens the configured cache; done closes it and the session.
func openCache() (*cache.Cache, func(), error) {
	s, err := openSession()
	if err != nil {
		return nil, nil, err
	}
	c, err := cache.Open(s.cfg.Cache.Path, cacheFingerprint(s.cfg), s.logger)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return c, func() {
		_ = c.Close()
		s.Close()
	}, nil
}

// cacheFingerprint ties cached results to the rule configuration and to the
// binary that produced them.
func cacheFingerprint(cfg *config.Config) string {
	return cfg.Fingerprint() + "@" + version.Version
}
