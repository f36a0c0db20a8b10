package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cscan-lang/cscan/internal/config"
	"github.com/cscan-lang/cscan/internal/exec"
	"github.com/cscan-lang/cscan/internal/report"
	"github.com/cscan-lang/cscan/pkg/cscan"
)

var (
	runEvalExpr string
	runConfig   string
	runScanID   string
	runSeverity string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Compile a definition and execute it against the registered collectors",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runEvalExpr, "eval", "e", "", "run inline source instead of reading from file")
	runCmd.Flags().StringVar(&runConfig, "config", "", "YAML run config (host context, collector hints, timeouts)")
	runCmd.Flags().StringVar(&runScanID, "scan-id", "adhoc", "identifier stamped onto the resulting report")
	runCmd.Flags().StringVar(&runSeverity, "severity", "medium", "severity stamped onto the resulting report (low|medium|high|critical)")
}

func runRun(cmd *cobra.Command, args []string) error {
	input, name, err := readSource(runEvalExpr, args)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if runConfig != "" {
		cfg, err = config.Load(runConfig)
		if err != nil {
			return err
		}
	}

	if !cmd.Flags().Changed("severity") && cfg.Severity != "" {
		runSeverity = cfg.Severity
	}
	severity := report.ParseSeverity(runSeverity)
	content, diags := cscan.Compile(input, severity)
	if diags != nil && !diags.Empty() {
		for _, d := range diags.Items {
			fmt.Println(d.Format(false))
		}
		return fmt.Errorf("run: %d diagnostic(s) in %s", len(diags.Items), name)
	}

	timeout := exec.Timeout{
		Collection: cfg.CollectionTimeout,
		RuntimeOps: cfg.RuntimeOpsTimeout,
		Evaluation: cfg.EvaluationTimeout,
	}

	// No collectors are registered here: this CLI is the reference harness
	// for the compiler/executor pipeline, not a probe distribution. A real
	// deployment registers its own exec.Collector implementations (package
	// or filesystem probes, registry queries, ...) against this same
	// exec.Registry before calling cscan.Run.
	registry := exec.NewRegistry()

	rpt, err := cscan.Run(context.Background(), runScanID, content, registry, timeout, cfg.Host, cfg.User)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	fmt.Printf("scan %s: total=%d pass=%d fail=%d error=%d passed=%v (%s)\n",
		rpt.ScanID, rpt.Counts.Total, rpt.Counts.Pass, rpt.Counts.Fail, rpt.Counts.Error, rpt.Passed, rpt.Elapsed)
	for _, f := range rpt.Findings {
		fmt.Printf("  %s.%s: %v\n", f.ObjectID, f.Path, f.Outcome)
	}
	return nil
}
