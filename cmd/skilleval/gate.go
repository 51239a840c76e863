package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skilleval/pkg/gate"
	"github.com/jingkaihe/skilleval/pkg/presenter"
)

type GateConfig struct {
	MinScore  float64
	Report    bool
	ReportDir string
}

func NewGateConfig() *GateConfig {
	return &GateConfig{
		MinScore:  0.5,
		Report:    false,
		ReportDir: "",
	}
}

var gateCmd = &cobra.Command{
	Use:   "gate <path>",
	Short: "Apply a pass/fail quality gate to a skill package",
	Long: `Evaluate a skill package and exit non-zero unless its overall score meets
the minimum threshold. Intended for CI pipelines that vet generated skills.

Examples:
  skilleval gate ./skills/pdf-digest
  skilleval gate ./skills/pdf-digest --min-score 0.7 --report`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getGateConfigFromFlags(cmd)
		if err := runGate(cmd.Context(), args[0], config); err != nil {
			presenter.Error(err, "Quality gate failed")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewGateConfig()
	gateCmd.Flags().Float64("min-score", defaults.MinScore, "Minimum overall score required to pass (0.0-1.0)")
	gateCmd.Flags().Bool("report", defaults.Report, "Write an HTML report for the evaluated skill")
	gateCmd.Flags().String("report-dir", defaults.ReportDir, "Directory for HTML reports (default: the skill's parent directory)")
	rootCmd.AddCommand(gateCmd)
}

func getGateConfigFromFlags(cmd *cobra.Command) *GateConfig {
	config := NewGateConfig()
	if minScore, err := cmd.Flags().GetFloat64("min-score"); err == nil {
		config.MinScore = minScore
	}
	if report, err := cmd.Flags().GetBool("report"); err == nil {
		config.Report = report
	}
	if reportDir, err := cmd.Flags().GetString("report-dir"); err == nil {
		config.ReportDir = reportDir
	}
	return config
}

func runGate(ctx context.Context, path string, config *GateConfig) error {
	opts := []gate.Option{gate.WithMinScore(config.MinScore)}
	if config.Report {
		opts = append(opts, gate.WithHTMLReport(config.ReportDir))
	}

	result, err := gate.New(opts...).Evaluate(ctx, path)
	if err != nil {
		return err
	}

	presenter.Info(fmt.Sprintf("Score: %.2f | Badge: %s | Passed: %t", result.Score, result.Badge, result.Passed))
	if result.HTMLReportPath != "" {
		presenter.Info(fmt.Sprintf("Report: %s", result.HTMLReportPath))
	}

	if !result.Passed {
		presenter.Section("Issues")
		for _, issue := range result.Issues {
			presenter.Info("  - " + issue)
		}
		for _, rec := range result.Recommendations {
			presenter.Info("  * " + rec)
		}
		os.Exit(1)
	}
	return nil
}
