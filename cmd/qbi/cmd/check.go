package cmd

import (
	"fmt"

	"github.com/qbi-lang/qbi/internal/errors"
	"github.com/qbi-lang/qbi/internal/lexer"
	"github.com/qbi-lang/qbi/internal/linter"
	"github.com/qbi-lang/qbi/internal/parser"
	"github.com/spf13/cobra"
)

var checkExpr string

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Tokenize, parse, and lint a BASIC source file",
	Long: `Run the full front-end pipeline over a BASIC program: tokenize,
parse, and resolve. Prints "OK" and exits 0 if every phase succeeds;
otherwise prints the first positioned error with source context.

If no file is provided, reads from stdin. Use -e to check an inline
snippet instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkExpr, "eval", "e", "", "check inline source instead of reading from a file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	input, err := readSource(checkExpr, args)
	if err != nil {
		return err
	}

	prog, err := parser.Program(lexer.New(input))
	if err != nil {
		if pe, ok := err.(*parser.Error); ok && !pe.Incomplete {
			ce := errors.New(errors.Syntax, pe.Pos, "%s", pe.Message).WithSource(input)
			fmt.Println(ce.FormatWithContext(1))
			return fmt.Errorf("check failed")
		}
		return err
	}

	if _, _, err := linter.Resolve(prog, input); err != nil {
		if ce, ok := err.(*errors.CompilerError); ok {
			fmt.Println(ce.FormatWithContext(1))
			return fmt.Errorf("check failed")
		}
		return err
	}

	fmt.Println("OK")
	return nil
}
