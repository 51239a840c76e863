// Package evaluator implements the quick-eval rubric for skill packages.
// A skill package is a directory containing a SKILL.md file with YAML
// frontmatter plus optional bundled scripts, references, and assets. The
// evaluator scores the package across five independent dimensions, assigns
// a badge tier, and reports actionable issues.
package evaluator

// Severity classifies how strongly an issue affects skill quality.
type Severity string

const (
	// SeverityError marks a hard rubric failure such as missing required structure.
	SeverityError Severity = "error"
	// SeverityWarning marks a quality concern that does not zero out a dimension.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks an advisory finding.
	SeverityInfo Severity = "info"
)

// Issue is a single finding from the rubric. Issues are immutable once created.
type Issue struct {
	Severity   Severity `json:"severity" mapstructure:"severity"`
	Code       string   `json:"code" mapstructure:"code"`
	Message    string   `json:"message" mapstructure:"message"`
	Line       *int     `json:"line" mapstructure:"line"`
	Suggestion string   `json:"suggestion,omitempty" mapstructure:"suggestion,omitempty"`
}

// Scores holds the five dimension scores, each in [0.0, 1.0]. The overall
// score is derived and never stored.
type Scores struct {
	Structure     float64 `json:"structure" mapstructure:"structure"`
	Triggers      float64 `json:"triggers" mapstructure:"triggers"`
	Actionability float64 `json:"actionability" mapstructure:"actionability"`
	ToolRefs      float64 `json:"tool_refs" mapstructure:"tool_refs"`
	Examples      float64 `json:"examples" mapstructure:"examples"`
}

// Dimension weights. They must sum to 1.0.
const (
	weightStructure     = 0.20
	weightTriggers      = 0.15
	weightActionability = 0.25
	weightToolRefs      = 0.20
	weightExamples      = 0.20
)

// Overall returns the weighted average of the five dimension scores.
func (s Scores) Overall() float64 {
	return s.Structure*weightStructure +
		s.Triggers*weightTriggers +
		s.Actionability*weightActionability +
		s.ToolRefs*weightToolRefs +
		s.Examples*weightExamples
}

// Badge is the categorical quality tier derived from the overall score.
type Badge string

const (
	// BadgeGold is awarded for overall scores of 0.85 and above.
	BadgeGold Badge = "gold"
	// BadgeSilver is awarded for overall scores of 0.70 and above.
	BadgeSilver Badge = "silver"
	// BadgeBronze is awarded for overall scores of 0.50 and above.
	BadgeBronze Badge = "bronze"
	// BadgeFail is assigned to anything below 0.50.
	BadgeFail Badge = "fail"
)

// BadgeForScore maps an overall score to its badge tier. Thresholds are
// closed intervals on the lower bound.
func BadgeForScore(overall float64) Badge {
	switch {
	case overall >= 0.85:
		return BadgeGold
	case overall >= 0.70:
		return BadgeSilver
	case overall >= 0.50:
		return BadgeBronze
	default:
		return BadgeFail
	}
}
