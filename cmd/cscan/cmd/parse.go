package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cscan-lang/cscan/internal/lexer"
	"github.com/cscan-lang/cscan/internal/parser"
	"github.com/cscan-lang/cscan/pkg/printer"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a compliance-scan definition and print its normalized form",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline source instead of reading from file")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, name, err := readSource(parseEvalExpr, args)
	if err != nil {
		return err
	}

	p := parser.New(lexer.New(input))
	file, errs := p.Parse()
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("%s: %s\n", name, e.Error())
		}
		return fmt.Errorf("parse: %d error(s) in %s", len(errs), name)
	}

	fmt.Print(printer.Print(file.Definition))
	return nil
}
