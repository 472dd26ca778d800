package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jsstyle/internal/lint"
)

var rulesFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRules(cmd.OutOrStdout(), lint.DefaultRegistry, rulesFormat)
	},
}

func init() {
	rulesCmd.Flags().StringVar(&rulesFormat, "format", "text", "Output format (text, json)")
	rootCmd.AddCommand(rulesCmd)
}

// RuleInfo describes a registered rule.
type RuleInfo struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Fixable         bool   `json:"fixable"`
	DefaultSeverity string `json:"defaultSeverity"`
}

func listRules(w io.Writer, reg *lint.Registry, format string) error {
	var infos []RuleInfo
	for _, r := range reg.All() {
		infos = append(infos, RuleInfo{
			Name:            r.Name(),
			Description:     r.Description(),
			Fixable:         r.Fixable(),
			DefaultSeverity: r.DefaultSeverity().String(),
		})
	}

	switch OutputFormat(format) {
	case FormatJSON:
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatText:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RULE\tDEFAULT\tFIXABLE\tDESCRIPTION")
		for _, info := range infos {
			fixable := "no"
			if info.Fixable {
				fixable = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, info.DefaultSeverity, fixable, info.Description)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
