package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sups/practice-server/internal/core/rules"
)

// RulesCheckResult is the JSON output of "rules check".
type RulesCheckResult struct {
	Status      string   `json:"status"`
	File        string   `json:"file"`
	Collections []string `json:"collections,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// NewRulesCommand groups the rule file tooling.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect access rule files",
	}
	cmd.AddCommand(newRulesCheckCommand(rootOpts))
	return cmd
}

func newRulesCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Parse a rules file and compile every expression",
		Long: `Parse a YAML or JSON rules file the way the server does at startup.

Every expression rule is compiled, so syntax errors surface here instead of on
the first request. Exits non-zero when the file is invalid.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesCheck(rootOpts, cmd, args[0])
		},
	}
}

func runRulesCheck(opts *RootOptions, cmd *cobra.Command, path string) error {
	table, loadErr := rules.LoadFile(path)

	result := RulesCheckResult{Status: "ok", File: path}
	if loadErr != nil {
		result.Status = "error"
		result.Error = loadErr.Error()
	} else {
		result.Collections = table.Collections()
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else if loadErr != nil {
		fmt.Fprintf(out, "✗ %s\n", loadErr)
	} else {
		fmt.Fprintf(out, "✓ %s is valid (%d collections: %s)\n", path, len(result.Collections), strings.Join(result.Collections, ", "))
	}
	return loadErr
}
