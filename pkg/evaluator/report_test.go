package evaluator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	line := 3
	return &Report{
		SkillID:     "pdf-digest",
		SkillPath:   "/skills/pdf-digest",
		EvaluatedAt: "2026-08-23T10:00:00Z",
		Tier:        "quick",
		Scores: Scores{
			Structure:     1.0,
			Triggers:      0.6,
			Actionability: 0.55,
			ToolRefs:      0.5,
			Examples:      0.4,
		},
		Issues: []Issue{
			{
				Severity:   SeverityWarning,
				Code:       "SHORT_DESCRIPTION",
				Message:    "Description is only 8 chars, may be too vague",
				Line:       &line,
				Suggestion: "Expand description to at least 50 characters",
			},
			{
				Severity: SeverityInfo,
				Code:     "NO_TOOL_REFS",
				Message:  "No tool, script, or API references found",
			},
		},
		Recommendations: []string{"Add 'Use when...' clause to description for better triggering"},
		Badge:           BadgeBronze,
	}
}

func TestScoresOverall(t *testing.T) {
	tests := []struct {
		name     string
		scores   Scores
		expected float64
	}{
		{"all zero", Scores{}, 0.0},
		{"all perfect", Scores{1, 1, 1, 1, 1}, 1.0},
		{"weighted mix", Scores{Structure: 1.0, Triggers: 0.6, Actionability: 0.2, ToolRefs: 0.5, Examples: 0.4}, 0.52},
		{"only actionability", Scores{Actionability: 1.0}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.scores.Overall(), 1e-9)
		})
	}
}

func TestBadgeForScore(t *testing.T) {
	tests := []struct {
		overall float64
		badge   Badge
	}{
		{1.0, BadgeGold},
		{0.85, BadgeGold},
		{0.849, BadgeSilver},
		{0.70, BadgeSilver},
		{0.699, BadgeBronze},
		{0.50, BadgeBronze},
		{0.499, BadgeFail},
		{0.0, BadgeFail},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.badge, BadgeForScore(tt.overall), "overall=%v", tt.overall)
	}
}

func TestReportToMap(t *testing.T) {
	report := sampleReport()
	m := report.ToMap()

	assert.Equal(t, "pdf-digest", m["skill_id"])
	assert.Equal(t, "quick", m["tier"])
	assert.Equal(t, "bronze", m["badge"])

	scores, ok := m["scores"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1.0, scores["structure"])
	assert.Equal(t, 0.55, scores["actionability"])
	// overall = 0.2 + 0.09 + 0.1375 + 0.1 + 0.08 = 0.6075, rounded.
	assert.Equal(t, 0.61, scores["overall"])

	issues, ok := m["issues"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, issues, 2)
	assert.Equal(t, "SHORT_DESCRIPTION", issues[0]["code"])
	assert.NotContains(t, issues[1], "suggestion")

	t.Run("nil recommendations serialize as empty list", func(t *testing.T) {
		bare := &Report{SkillID: "x", Badge: BadgeFail}
		m := bare.ToMap()
		recs, ok := m["recommendations"].([]string)
		require.True(t, ok)
		assert.Empty(t, recs)
	})
}

func TestReportRoundTrip(t *testing.T) {
	t.Run("through ToMap", func(t *testing.T) {
		report := sampleReport()
		restored, err := ReportFromMap(report.ToMap())
		require.NoError(t, err)

		assert.Equal(t, report.SkillID, restored.SkillID)
		assert.Equal(t, report.SkillPath, restored.SkillPath)
		assert.Equal(t, report.EvaluatedAt, restored.EvaluatedAt)
		assert.Equal(t, report.Badge, restored.Badge)
		assert.Equal(t, report.Recommendations, restored.Recommendations)

		// ToMap rounds scores to 2 decimals; these fixtures already are.
		assert.Equal(t, report.Scores, restored.Scores)

		require.Len(t, restored.Issues, 2)
		assert.Equal(t, report.Issues[0].Code, restored.Issues[0].Code)
		assert.Equal(t, report.Issues[0].Severity, restored.Issues[0].Severity)
		require.NotNil(t, restored.Issues[0].Line)
		assert.Equal(t, 3, *restored.Issues[0].Line)
		assert.Nil(t, restored.Issues[1].Line)
	})

	t.Run("through JSON", func(t *testing.T) {
		report := sampleReport()
		serialized, err := report.ToJSON()
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(serialized), &m))

		restored, err := ReportFromMap(m)
		require.NoError(t, err)
		assert.Equal(t, report.SkillID, restored.SkillID)
		assert.Equal(t, report.Badge, restored.Badge)
		assert.Equal(t, report.Scores, restored.Scores)
		require.Len(t, restored.Issues, 2)
		assert.Equal(t, "NO_TOOL_REFS", restored.Issues[1].Code)
	})
}

func TestReportToMarkdown(t *testing.T) {
	report := sampleReport()
	md := report.ToMarkdown()

	assert.Contains(t, md, "# Skill Evaluation Report: pdf-digest")
	assert.Contains(t, md, "BRONZE")
	assert.Contains(t, md, "| Structure | 1.00 | 20% |")
	assert.Contains(t, md, "| Actionability | 0.55 | 25% |")
	assert.Contains(t, md, "**SHORT_DESCRIPTION** (line 3)")
	assert.Contains(t, md, "1. Add 'Use when...' clause")

	t.Run("omits empty sections", func(t *testing.T) {
		bare := &Report{SkillID: "clean", Badge: BadgeGold}
		md := bare.ToMarkdown()
		assert.NotContains(t, md, "## Issues")
		assert.NotContains(t, md, "## Recommendations")
	})
}
