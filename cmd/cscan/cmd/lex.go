package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cscan-lang/cscan/internal/lexer"
)

var (
	lexShowPos  bool
	lexEvalExpr string
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a compliance-scan definition and print the resulting tokens",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline source instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, _, err := readSource(lexEvalExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	for {
		tok, lexErr := l.NextToken()
		if lexErr != nil {
			return fmt.Errorf("lex: %s", lexErr.Message)
		}
		line := fmt.Sprintf("%-12s %q", tok.Type, tok.Literal)
		if lexShowPos {
			line += fmt.Sprintf(" @%s", tok.Start)
		}
		fmt.Fprintln(os.Stdout, line)
		if tok.Type.String() == "EOF" {
			break
		}
	}
	return nil
}

func readSource(inline string, args []string) (string, string, error) {
	if inline != "" {
		return inline, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("provide a file path or use -e for inline source")
}
