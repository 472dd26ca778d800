package main

import (
	"fmt"
	"os"

	"jsstyle/internal/errors"
)

// Exit codes: 0 clean, 1 lint problems, 2 anything that kept the run from
// completing (bad flags, bad config, missing files).
const (
	exitOK       = 0
	exitProblems = 1
	exitFailure  = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if exit, ok := err.(*exitError); ok {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, fix := range errors.GetSuggestedFixes(errors.CodeOf(err)) {
			if fix.Command != "" {
				fmt.Fprintf(os.Stderr, "  hint: %s (%s)\n", fix.Description, fix.Command)
			} else {
				fmt.Fprintf(os.Stderr, "  hint: %s\n", fix.Description)
			}
		}
		os.Exit(exitFailure)
	}
}

// exitError ends the process with code after output was already written.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
