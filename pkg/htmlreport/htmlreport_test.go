package htmlreport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skilleval/pkg/evaluator"
)

func sampleReportMap() map[string]any {
	line := 3
	report := &evaluator.Report{
		SkillID:     "pdf-digest",
		SkillPath:   "/skills/pdf-digest",
		EvaluatedAt: "2026-08-23T10:00:00Z",
		Tier:        "quick",
		Scores: evaluator.Scores{
			Structure:     1.0,
			Triggers:      0.8,
			Actionability: 0.6,
			ToolRefs:      0.5,
			Examples:      0.9,
		},
		Issues: []evaluator.Issue{
			{
				Severity:   evaluator.SeverityWarning,
				Code:       "SHORT_DESCRIPTION",
				Message:    "Description is only 8 chars, may be too vague",
				Line:       &line,
				Suggestion: "Expand description to at least 50 characters",
			},
		},
		Recommendations: []string{"Add numbered procedural steps for better actionability"},
		Badge:           evaluator.BadgeSilver,
	}
	return report.ToMap()
}

func TestRender(t *testing.T) {
	t.Run("renders a complete page", func(t *testing.T) {
		html, err := Render(sampleReportMap())
		require.NoError(t, err)

		assert.Contains(t, html, "<!DOCTYPE html>")
		assert.Contains(t, html, "pdf-digest")
		assert.Contains(t, html, "silver")
		assert.Contains(t, html, "<svg")
		assert.Contains(t, html, "SHORT_DESCRIPTION")
		assert.Contains(t, html, "line 3")
		assert.Contains(t, html, "Add numbered procedural steps")
		assert.Contains(t, html, "Tool References")
	})

	t.Run("radar polygon reflects the scores", func(t *testing.T) {
		html, err := Render(sampleReportMap())
		require.NoError(t, err)

		// Axis 0 (structure) points straight up from the center at full score.
		assert.Contains(t, html, "150.0,40.0")
	})

	t.Run("missing scores map", func(t *testing.T) {
		_, err := Render(map[string]any{"skill_id": "broken"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing scores")
	})

	t.Run("tolerates a minimal map", func(t *testing.T) {
		html, err := Render(map[string]any{
			"skill_id": "minimal",
			"scores":   map[string]any{"overall": 0.5},
		})
		require.NoError(t, err)
		assert.Contains(t, html, "minimal")
		assert.Contains(t, html, "0.50")
	})
}

func TestRenderBatch(t *testing.T) {
	t.Run("joins pages with the batch separator", func(t *testing.T) {
		first := sampleReportMap()
		second := sampleReportMap()
		second["skill_id"] = "docx-digest"

		html, err := RenderBatch([]map[string]any{first, second})
		require.NoError(t, err)

		assert.Equal(t, 1, strings.Count(html, "<!-- BATCH SEPARATOR -->"))
		assert.Contains(t, html, "pdf-digest")
		assert.Contains(t, html, "docx-digest")
	})

	t.Run("empty batch renders nothing", func(t *testing.T) {
		html, err := RenderBatch(nil)
		require.NoError(t, err)
		assert.Empty(t, html)
	})
}
