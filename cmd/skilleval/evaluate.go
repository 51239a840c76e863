package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skilleval/pkg/evaluator"
	"github.com/jingkaihe/skilleval/pkg/htmlreport"
	"github.com/jingkaihe/skilleval/pkg/presenter"
)

type EvaluateConfig struct {
	Batch   bool
	Include string
	Format  string
	Verbose bool
	Output  string
}

func NewEvaluateConfig() *EvaluateConfig {
	return &EvaluateConfig{
		Batch:   false,
		Include: "",
		Format:  "json",
		Verbose: false,
		Output:  "",
	}
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <path>",
	Short: "Evaluate skill package quality",
	Long: `Evaluate a skill package (or, with --batch, every skill package directly
under a directory) against the quick-eval rubric and print the report.

Examples:
  skilleval evaluate ./skills/pdf-digest
  skilleval evaluate ./skills --batch --include 'pdf-*'
  skilleval evaluate ./skills/pdf-digest --format md
  skilleval evaluate ./skills/pdf-digest --format html -o report.html`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getEvaluateConfigFromFlags(cmd)
		if err := runEvaluate(args[0], config); err != nil {
			presenter.Error(err, "Evaluation failed")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewEvaluateConfig()
	evaluateCmd.Flags().Bool("batch", defaults.Batch, "Evaluate all skill packages in the directory")
	evaluateCmd.Flags().String("include", defaults.Include, "Glob pattern restricting which skill directories to evaluate in batch mode")
	evaluateCmd.Flags().String("format", defaults.Format, "Output format (json, md, html)")
	evaluateCmd.Flags().BoolP("verbose", "v", defaults.Verbose, "Print a per-dimension summary to stderr")
	evaluateCmd.Flags().StringP("output", "o", defaults.Output, "Output file path (default: stdout)")
	rootCmd.AddCommand(evaluateCmd)
}

func getEvaluateConfigFromFlags(cmd *cobra.Command) *EvaluateConfig {
	config := NewEvaluateConfig()
	if batch, err := cmd.Flags().GetBool("batch"); err == nil {
		config.Batch = batch
	}
	if include, err := cmd.Flags().GetString("include"); err == nil {
		config.Include = include
	}
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil {
		config.Verbose = verbose
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.Output = output
	}
	return config
}

func runEvaluate(path string, config *EvaluateConfig) error {
	switch config.Format {
	case "json", "md", "html":
	default:
		return errors.Errorf("unsupported format %q (expected json, md, or html)", config.Format)
	}

	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, "path not found: %s", path)
	}

	var reports []*evaluator.Report
	if config.Batch {
		batch, err := evaluator.EvaluateBatch(path, evaluator.BatchOptions{Include: config.Include})
		if err != nil {
			return err
		}
		reports = batch
	} else {
		report, err := evaluator.Evaluate(path)
		if err != nil {
			return err
		}
		reports = []*evaluator.Report{report}
	}

	if config.Verbose {
		for _, report := range reports {
			printSummary(report)
		}
	}

	output, err := formatReports(reports, config.Format)
	if err != nil {
		return err
	}

	outputPath := config.Output
	if outputPath == "" && config.Format == "html" && !config.Batch {
		// Default the HTML report next to the skill directory, as the quality
		// gate does.
		outputPath = filepath.Join(filepath.Dir(reports[0].SkillPath), fmt.Sprintf("%s_report.html", reports[0].SkillID))
	}

	if outputPath != "" {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return errors.Wrap(err, "failed to create output directory")
		}
		if err := os.WriteFile(outputPath, []byte(output), 0o644); err != nil {
			return errors.Wrap(err, "failed to write report")
		}
		presenter.Success(fmt.Sprintf("Report written to: %s", outputPath))
	} else {
		fmt.Println(output)
	}

	for _, report := range reports {
		if report.Badge == evaluator.BadgeFail {
			return errors.Errorf("skill %q received badge fail", report.SkillID)
		}
	}
	return nil
}

func formatReports(reports []*evaluator.Report, format string) (string, error) {
	switch format {
	case "md":
		parts := make([]string, 0, len(reports))
		for _, report := range reports {
			parts = append(parts, report.ToMarkdown())
		}
		return strings.Join(parts, "\n\n---\n\n"), nil

	case "html":
		maps := make([]map[string]any, 0, len(reports))
		for _, report := range reports {
			maps = append(maps, report.ToMap())
		}
		return htmlreport.RenderBatch(maps)

	default: // json
		if len(reports) == 1 {
			return reports[0].ToJSON()
		}
		maps := make([]map[string]any, 0, len(reports))
		for _, report := range reports {
			maps = append(maps, report.ToMap())
		}
		data, err := json.MarshalIndent(maps, "", "  ")
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal batch reports")
		}
		return string(data), nil
	}
}

func printSummary(report *evaluator.Report) {
	presenter.Section(fmt.Sprintf("%s: %s (%.2f)", report.SkillID, report.Badge, report.Scores.Overall()))
	presenter.Info(fmt.Sprintf("  structure:     %.2f", report.Scores.Structure))
	presenter.Info(fmt.Sprintf("  triggers:      %.2f", report.Scores.Triggers))
	presenter.Info(fmt.Sprintf("  actionability: %.2f", report.Scores.Actionability))
	presenter.Info(fmt.Sprintf("  tool_refs:     %.2f", report.Scores.ToolRefs))
	presenter.Info(fmt.Sprintf("  examples:      %.2f", report.Scores.Examples))
	presenter.Info(fmt.Sprintf("  issues:        %d", len(report.Issues)))
}
