package evaluator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const skillFileName = "SKILL.md"

// tierQuick is the only evaluation tier currently implemented.
const tierQuick = "quick"

// Evaluate runs the full rubric against one skill package directory and
// returns its report. Malformed input degrades to zero scores plus issues;
// the returned error is reserved for filesystem failures reading SKILL.md.
func Evaluate(skillDir string) (*Report, error) {
	resolved, err := filepath.Abs(skillDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve skill path")
	}

	report := &Report{
		SkillID:     filepath.Base(resolved),
		SkillPath:   resolved,
		EvaluatedAt: time.Now().UTC().Format(time.RFC3339),
		Tier:        tierQuick,
		Badge:       BadgeFail,
	}

	skillMD := filepath.Join(resolved, skillFileName)
	if _, err := os.Stat(skillMD); err != nil {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Code:     "NO_SKILL_MD",
			Message:  fmt.Sprintf("SKILL.md not found in %s", resolved),
		})
		return report, nil
	}

	content, err := os.ReadFile(skillMD)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read SKILL.md")
	}

	frontmatter, body, parseIssues := ParseFrontmatter(string(content))
	report.Issues = append(report.Issues, parseIssues...)

	// Checks run in a fixed order and their issues are appended in that same
	// order, so repeated evaluations of an unchanged package are identical.
	var issues []Issue
	report.Scores.Structure, issues = checkStructure(resolved, frontmatter)
	report.Issues = append(report.Issues, issues...)

	report.Scores.Triggers, issues = checkTriggers(frontmatter, body)
	report.Issues = append(report.Issues, issues...)

	report.Scores.Actionability, issues = checkActionability(body)
	report.Issues = append(report.Issues, issues...)

	report.Scores.ToolRefs, issues = checkToolRefs(resolved, body)
	report.Issues = append(report.Issues, issues...)

	report.Scores.Examples, issues = checkExamples(body)
	report.Issues = append(report.Issues, issues...)

	report.Badge = BadgeForScore(report.Scores.Overall())
	report.Recommendations = recommendations(report.Issues)

	return report, nil
}

// recommendationRule maps the presence of any trigger code to one
// recommendation string. Rules fire in priority order and each contributes at
// most once, regardless of how many trigger codes are present.
type recommendationRule struct {
	codes   []string
	message string
}

var recommendationRules = []recommendationRule{
	{[]string{"DUPLICATE_FRONTMATTER"}, "Remove duplicate YAML frontmatter block (critical)"},
	{[]string{"MISSING_NAME", "MISSING_DESCRIPTION"}, "Add required 'name' and 'description' fields to frontmatter"},
	{[]string{"NO_USAGE_CONTEXT"}, "Add 'Use when...' clause to description for better triggering"},
	{[]string{"NO_STEPS"}, "Add numbered procedural steps for better actionability"},
	{[]string{"MANY_PLACEHOLDERS", "PLACEHOLDERS_FOUND"}, "Replace placeholder text with real examples"},
}

// recommendations derives remediation advice from the set of issue codes
// present. The output depends only on which codes occur, not on their order.
func recommendations(issues []Issue) []string {
	present := make(map[string]struct{}, len(issues))
	for _, issue := range issues {
		present[issue.Code] = struct{}{}
	}

	var recs []string
	for _, rule := range recommendationRules {
		for _, code := range rule.codes {
			if _, ok := present[code]; ok {
				recs = append(recs, rule.message)
				break
			}
		}
	}
	return recs
}

// BatchOptions configures batch evaluation.
type BatchOptions struct {
	// Include restricts evaluation to skill directories whose base name
	// matches this glob pattern. Empty means all.
	Include string
}

// EvaluateBatch evaluates every immediate subdirectory of dir that contains a
// SKILL.md file, in lexical order. A failure evaluating one package never
// aborts evaluation of its siblings; such failures are accumulated and
// returned alongside the successful reports.
func EvaluateBatch(dir string, opts BatchOptions) ([]*Report, error) {
	var matcher glob.Glob
	if opts.Include != "" {
		var err error
		matcher, err = glob.Compile(opts.Include)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid include pattern %q", opts.Include)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read skills directory %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		// Stat rather than entry.IsDir so symlinked skill directories count.
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil || !info.IsDir() {
			continue
		}
		if matcher != nil && !matcher.Match(entry.Name()) {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, entry.Name(), skillFileName)); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var reports []*Report
	var errs *multierror.Error
	for _, name := range names {
		report, err := Evaluate(filepath.Join(dir, name))
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "failed to evaluate %s", name))
			continue
		}
		reports = append(reports, report)
	}

	return reports, errs.ErrorOrNil()
}
