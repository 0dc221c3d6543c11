package cmd

import (
	"fmt"

	"github.com/qbi-lang/qbi/internal/lexer"
	"github.com/qbi-lang/qbi/internal/parser"
	"github.com/spf13/cobra"
)

var parseExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a BASIC source file and print the resulting AST",
	Long: `Parse a BASIC program into its raw (unresolved) AST and print it.

If no file is provided, reads from stdin. Use -e to parse an inline
snippet instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseExpr, "eval", "e", "", "parse inline source instead of reading from a file")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readSource(parseExpr, args)
	if err != nil {
		return err
	}

	prog, err := parser.Program(lexer.New(input))
	if err != nil {
		return err
	}

	fmt.Print(prog.String())
	return nil
}
