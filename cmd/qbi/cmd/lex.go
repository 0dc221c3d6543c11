package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/qbi-lang/qbi/internal/lexer"
	"github.com/qbi-lang/qbi/pkg/token"
	"github.com/spf13/cobra"
)

var (
	lexExpr     string
	lexShowPos  bool
	lexShowKind bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a BASIC source file and print the resulting tokens",
	Long: `Tokenize a BASIC program and print the resulting token stream.

If no file is provided, reads from stdin. Use -e to tokenize an inline
snippet instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexExpr, "eval", "e", "", "tokenize inline source instead of reading from a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show each token's position")
	lexCmd.Flags().BoolVar(&lexShowKind, "show-kind", false, "show each token's kind")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, err := readSource(lexExpr, args)
	if err != nil {
		return err
	}

	tz := lexer.New(input)
	count := 0
	for {
		tok, ok, err := tz.Read()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		count++
		printToken(tok)
	}
	fmt.Fprintf(os.Stderr, "%d token(s)\n", count)
	return nil
}

func printToken(tok token.Token) {
	out := ""
	if lexShowKind {
		out += fmt.Sprintf("[%-12s] ", tok.Kind)
	}
	out += fmt.Sprintf("%q", tok.Text)
	if lexShowPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Row, tok.Pos.Col)
	}
	fmt.Println(out)
}

func readSource(inline string, args []string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
