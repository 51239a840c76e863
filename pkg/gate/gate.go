// Package gate wraps the evaluator with a pass/fail threshold for pipeline
// integration, such as vetting freshly generated or downloaded skills before
// they are published.
package gate

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skilleval/pkg/evaluator"
	"github.com/jingkaihe/skilleval/pkg/htmlreport"
	"github.com/jingkaihe/skilleval/pkg/logger"
)

// Gate evaluates skill packages against a minimum overall score. The
// threshold is independent of badge tiers; callers may set it between badge
// boundaries.
type Gate struct {
	minScore       float64
	generateReport bool
	reportDir      string
}

// Option configures a Gate
type Option func(*Gate)

// WithMinScore sets the minimum overall score required to pass (default 0.5)
func WithMinScore(minScore float64) Option {
	return func(g *Gate) {
		g.minScore = minScore
	}
}

// WithHTMLReport enables writing an HTML report next to the evaluated skill,
// or into dir when non-empty
func WithHTMLReport(dir string) Option {
	return func(g *Gate) {
		g.generateReport = true
		g.reportDir = dir
	}
}

// New creates a Gate with the given options
func New(opts ...Option) *Gate {
	g := &Gate{minScore: 0.5}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result is the outcome of gating one skill package.
type Result struct {
	Passed          bool
	Score           float64
	Badge           evaluator.Badge
	Issues          []string
	Recommendations []string
	Report          *evaluator.Report
	HTMLReportPath  string
}

// Evaluate runs the rubric against skillDir and applies the pass threshold.
// HTML report generation failures never fail the gate; they are logged as
// warnings and leave HTMLReportPath empty.
func (g *Gate) Evaluate(ctx context.Context, skillDir string) (*Result, error) {
	log := logger.G(ctx).WithField("gate_run_id", uuid.New().String())

	report, err := evaluator.Evaluate(skillDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to evaluate skill at %s", skillDir)
	}

	score := report.Scores.Overall()
	result := &Result{
		Passed:          score >= g.minScore,
		Score:           round2(score),
		Badge:           report.Badge,
		Issues:          flattenIssues(report.Issues),
		Recommendations: report.Recommendations,
		Report:          report,
	}

	log.WithFields(map[string]any{
		"skill_id": report.SkillID,
		"score":    result.Score,
		"badge":    report.Badge,
		"passed":   result.Passed,
	}).Debug("quality gate evaluated skill")

	if g.generateReport {
		path, err := g.writeHTMLReport(report)
		if err != nil {
			log.WithError(err).Warn("failed to generate HTML report")
		} else {
			result.HTMLReportPath = path
		}
	}

	return result, nil
}

func (g *Gate) writeHTMLReport(report *evaluator.Report) (string, error) {
	html, err := htmlreport.Render(report.ToMap())
	if err != nil {
		return "", err
	}

	outputDir := g.reportDir
	if outputDir == "" {
		outputDir = filepath.Dir(report.SkillPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create report directory")
	}

	path := filepath.Join(outputDir, fmt.Sprintf("%s_report.html", report.SkillID))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write HTML report")
	}
	return path, nil
}

// flattenIssues renders issues as "[SEVERITY] message" strings for pipeline
// consumers that only care about text output.
func flattenIssues(issues []evaluator.Issue) []string {
	flattened := make([]string, 0, len(issues))
	for _, issue := range issues {
		flattened = append(flattened, fmt.Sprintf("[%s] %s", strings.ToUpper(string(issue.Severity)), issue.Message))
	}
	return flattened
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
