// Package htmlreport renders a static HTML page for an evaluation report,
// including a five-axis SVG radar chart of the dimension scores. It consumes
// only the serialized map form of a report, never the evaluator's internal
// types.
package htmlreport

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/pkg/errors"
)

//go:embed report.html.tmpl
var reportTemplateText string

var reportTemplate = template.Must(template.New("report").Parse(reportTemplateText))

const (
	radarCenter = 150.0
	radarRadius = 110.0
)

// batchSeparator delimits concatenated reports in batch output.
const batchSeparator = "\n<!-- BATCH SEPARATOR -->\n"

type dimensionView struct {
	Label  string
	Score  float64
	Weight string
}

type issueView struct {
	Icon       string
	Severity   string
	Code       string
	Line       string
	Message    string
	Suggestion string
}

type point struct {
	X float64
	Y float64
}

type axisLabelView struct {
	X    float64
	Y    float64
	Text string
}

type pageView struct {
	SkillID         string
	SkillPath       string
	EvaluatedAt     string
	Badge           string
	Overall         string
	Dimensions      []dimensionView
	Issues          []issueView
	Recommendations []string
	RadarPoints     string
	GridRings       []string
	AxisEnds        []point
	AxisLabels      []axisLabelView
}

var dimensionOrder = []struct {
	key    string
	label  string
	weight string
}{
	{"structure", "Structure", "20%"},
	{"triggers", "Triggers", "15%"},
	{"actionability", "Actionability", "25%"},
	{"tool_refs", "Tool References", "20%"},
	{"examples", "Examples", "20%"},
}

var severityIcons = map[string]string{
	"error":   "🔴",
	"warning": "🟡",
	"info":    "🔵",
}

// Render produces a standalone HTML report page from the serialized report
// map (the output of Report.ToMap or its JSON round-trip).
func Render(report map[string]any) (string, error) {
	view, err := buildView(report)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return "", errors.Wrap(err, "failed to execute report template")
	}
	return buf.String(), nil
}

// RenderBatch concatenates the rendered pages for multiple reports.
func RenderBatch(reports []map[string]any) (string, error) {
	pages := make([]string, 0, len(reports))
	for _, report := range reports {
		page, err := Render(report)
		if err != nil {
			return "", err
		}
		pages = append(pages, page)
	}
	return strings.Join(pages, batchSeparator), nil
}

func buildView(report map[string]any) (*pageView, error) {
	scores, ok := report["scores"].(map[string]any)
	if !ok {
		return nil, errors.New("report map missing scores")
	}

	view := &pageView{
		SkillID:     asString(report["skill_id"]),
		SkillPath:   asString(report["skill_path"]),
		EvaluatedAt: asString(report["evaluated_at"]),
		Badge:       asString(report["badge"]),
		Overall:     fmt.Sprintf("%.2f", asFloat(scores["overall"])),
	}

	values := make([]float64, 0, len(dimensionOrder))
	for _, dim := range dimensionOrder {
		score := asFloat(scores[dim.key])
		values = append(values, score)
		view.Dimensions = append(view.Dimensions, dimensionView{
			Label:  dim.label,
			Score:  score,
			Weight: dim.weight,
		})
	}

	view.RadarPoints = polygonPoints(values)
	for _, ring := range []float64{0.25, 0.5, 0.75, 1.0} {
		view.GridRings = append(view.GridRings, polygonPoints([]float64{ring, ring, ring, ring, ring}))
	}
	for i, dim := range dimensionOrder {
		end := vertex(i, 1.0)
		view.AxisEnds = append(view.AxisEnds, end)
		label := vertex(i, 1.22)
		view.AxisLabels = append(view.AxisLabels, axisLabelView{X: label.X, Y: label.Y, Text: dim.label})
	}

	view.Issues = issueViews(report["issues"])
	view.Recommendations = stringSlice(report["recommendations"])

	return view, nil
}

// vertex returns the radar chart coordinate for axis i at the given radial
// fraction. Axis 0 points straight up and the rest follow clockwise.
func vertex(i int, fraction float64) point {
	angle := -math.Pi/2 + float64(i)*2*math.Pi/float64(len(dimensionOrder))
	return point{
		X: radarCenter + radarRadius*fraction*math.Cos(angle),
		Y: radarCenter + radarRadius*fraction*math.Sin(angle),
	}
}

func polygonPoints(values []float64) string {
	parts := make([]string, 0, len(values))
	for i, value := range values {
		p := vertex(i, value)
		parts = append(parts, fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
	}
	return strings.Join(parts, " ")
}

func issueViews(raw any) []issueView {
	var views []issueView
	for _, item := range anySlice(raw) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		severity := asString(m["severity"])
		line := ""
		if l, ok := m["line"]; ok && l != nil {
			if n, isPtr := l.(*int); isPtr {
				if n != nil {
					line = fmt.Sprintf("line %d", *n)
				}
			} else {
				line = fmt.Sprintf("line %.0f", asFloat(l))
			}
		}
		views = append(views, issueView{
			Icon:       severityIcons[severity],
			Severity:   severity,
			Code:       asString(m["code"]),
			Line:       line,
			Message:    asString(m["message"]),
			Suggestion: asString(m["suggestion"]),
		})
	}
	return views
}

func anySlice(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case []map[string]any:
		items := make([]any, 0, len(v))
		for _, m := range v {
			items = append(items, m)
		}
		return items
	default:
		return nil
	}
}

func stringSlice(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, asString(item))
		}
		return out
	default:
		return nil
	}
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}
