// Command qbi is the CLI front-end for the QBASIC-compatible tokenizer,
// parser, and linter (spec.md §1): lex, parse, and check pipelines over
// source files, grounded on go-dws's cobra-based dwscript CLI.
package main

import (
	"fmt"
	"os"

	"github.com/qbi-lang/qbi/cmd/qbi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
