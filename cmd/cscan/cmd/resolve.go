package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cscan-lang/cscan/internal/report"
	"github.com/cscan-lang/cscan/pkg/cscan"
)

var resolveEvalExpr string

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Parse and resolve a definition's dependency graph without executing it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVarP(&resolveEvalExpr, "eval", "e", "", "resolve inline source instead of reading from file")
}

func runResolve(cmd *cobra.Command, args []string) error {
	input, name, err := readSource(resolveEvalExpr, args)
	if err != nil {
		return err
	}

	content, diags := cscan.Compile(input, report.SeverityMedium)
	if diags != nil && !diags.Empty() {
		for _, d := range diags.Items {
			fmt.Println(d.Format(false))
		}
		return fmt.Errorf("resolve: %d diagnostic(s) in %s", len(diags.Items), name)
	}

	fmt.Println("resolution order:")
	for _, n := range content.Resolved.Order {
		fmt.Printf("  %s\n", n)
	}
	fmt.Printf("deferred runtime ops: %d\n", len(content.Resolved.Deferred))
	return nil
}
