package evaluator

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Report is the result of evaluating a single skill package. It is created
// once per evaluation run and never mutated afterwards except by
// serialization.
type Report struct {
	SkillID         string   `mapstructure:"skill_id"`
	SkillPath       string   `mapstructure:"skill_path"`
	EvaluatedAt     string   `mapstructure:"evaluated_at"`
	Tier            string   `mapstructure:"tier"`
	Scores          Scores   `mapstructure:"scores"`
	Issues          []Issue  `mapstructure:"issues"`
	Recommendations []string `mapstructure:"recommendations"`
	Badge           Badge    `mapstructure:"badge"`
}

var badgeEmoji = map[Badge]string{
	BadgeGold:   "🥇",
	BadgeSilver: "🥈",
	BadgeBronze: "🥉",
	BadgeFail:   "❌",
}

var severityIcons = map[Severity]string{
	SeverityError:   "🔴",
	SeverityWarning: "🟡",
	SeverityInfo:    "🔵",
}

// ToMap converts the report to its loose-mapping form for serialization.
// Scores are rounded to 2 decimals and the derived overall value is included.
// The structured Issue records are only converted to maps here, never inside
// scoring logic.
func (r *Report) ToMap() map[string]any {
	issues := make([]map[string]any, 0, len(r.Issues))
	for _, issue := range r.Issues {
		m := map[string]any{}
		// Decoding a struct into a map cannot fail for these field types.
		_ = mapstructure.Decode(issue, &m)
		issues = append(issues, m)
	}

	recommendations := r.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	return map[string]any{
		"skill_id":     r.SkillID,
		"skill_path":   r.SkillPath,
		"evaluated_at": r.EvaluatedAt,
		"tier":         r.Tier,
		"scores": map[string]any{
			"overall":       round2(r.Scores.Overall()),
			"structure":     round2(r.Scores.Structure),
			"triggers":      round2(r.Scores.Triggers),
			"actionability": round2(r.Scores.Actionability),
			"tool_refs":     round2(r.Scores.ToolRefs),
			"examples":      round2(r.Scores.Examples),
		},
		"issues":          issues,
		"recommendations": recommendations,
		"badge":           string(r.Badge),
	}
}

// ReportFromMap reconstructs a Report from its loose-mapping form. Score
// values and issue ordering round-trip through ToMap unchanged.
func ReportFromMap(m map[string]any) (*Report, error) {
	report := &Report{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           report,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build report decoder")
	}
	if err := decoder.Decode(m); err != nil {
		return nil, errors.Wrap(err, "failed to decode report map")
	}

	return report, nil
}

// ToJSON serializes the report map form as indented JSON.
func (r *Report) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r.ToMap(), "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal report")
	}
	return string(data), nil
}

// ToMarkdown renders the report as a human-readable markdown document with a
// scores table, issue list, and numbered recommendations.
func (r *Report) ToMarkdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Skill Evaluation Report: %s\n\n", r.SkillID)
	fmt.Fprintf(&sb, "**Badge**: %s %s\n", badgeEmoji[r.Badge], strings.ToUpper(string(r.Badge)))
	fmt.Fprintf(&sb, "**Overall Score**: %.2f\n", r.Scores.Overall())
	fmt.Fprintf(&sb, "**Evaluated**: %s\n\n", r.EvaluatedAt)

	sb.WriteString("## Scores\n\n")
	sb.WriteString("| Dimension | Score | Weight |\n")
	sb.WriteString("|-----------|-------|--------|\n")
	fmt.Fprintf(&sb, "| Structure | %.2f | 20%% |\n", r.Scores.Structure)
	fmt.Fprintf(&sb, "| Triggers | %.2f | 15%% |\n", r.Scores.Triggers)
	fmt.Fprintf(&sb, "| Actionability | %.2f | 25%% |\n", r.Scores.Actionability)
	fmt.Fprintf(&sb, "| Tool References | %.2f | 20%% |\n", r.Scores.ToolRefs)
	fmt.Fprintf(&sb, "| Examples | %.2f | 20%% |\n\n", r.Scores.Examples)

	if len(r.Issues) > 0 {
		sb.WriteString("## Issues\n\n")
		for _, issue := range r.Issues {
			lineInfo := ""
			if issue.Line != nil {
				lineInfo = fmt.Sprintf(" (line %d)", *issue.Line)
			}
			fmt.Fprintf(&sb, "- %s **%s**%s: %s\n", severityIcons[issue.Severity], issue.Code, lineInfo, issue.Message)
			if issue.Suggestion != "" {
				fmt.Fprintf(&sb, "  - 💡 %s\n", issue.Suggestion)
			}
		}
		sb.WriteString("\n")
	}

	if len(r.Recommendations) > 0 {
		sb.WriteString("## Recommendations\n\n")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, rec)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
