package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "qbi",
	Short: "A tokenizer, parser, and linter for a QBASIC-compatible dialect",
	Long: `qbi tokenizes, parses, and lints BASIC source files.

It implements the front-end of a QBASIC-compatible dialect: a
longest-match tokenizer, a parser-combinator-based grammar, and a
semantic linter/resolver. It does not execute programs — the bytecode
generator and runtime are separate, out-of-scope collaborators.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}
