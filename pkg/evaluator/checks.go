package evaluator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// allowedFields is the set of frontmatter keys the skill format recognizes.
var allowedFields = map[string]struct{}{
	"name":        {},
	"description": {},
	"license":     {},
	"tags":        {},
}

var resourceDirs = []string{"scripts", "references", "assets"}

var usageKeywords = []string{"use when", "use for", "triggers", "invoke", "activate", "call this"}

var vaguePhrases = []string{
	"as needed", "if necessary", "when appropriate",
	"as applicable", "etc.", "and so on", "various",
}

var (
	triggerBodyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)##?\s*(trigger|usage|invoke|activate)`),
		regexp.MustCompile(`(?i)\*.*trigger.*\*`),
		// Quoted phrases in the body are often example trigger utterances.
		regexp.MustCompile(`"[^"]*"`),
	}

	stepPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\d+\.\s+`),
		regexp.MustCompile(`(?m)^-\s+`),
		regexp.MustCompile(`(?m)^\*\s+`),
		regexp.MustCompile(`(?m)^#{1,3}\s+Step`),
	}

	reCodeBlock       = regexp.MustCompile("```[\\s\\S]*?```")
	reImperativeVerbs = regexp.MustCompile(`(?i)\b(run|execute|create|add|remove|update|check|verify|use)\b`)

	reScriptRef    = regexp.MustCompile(`scripts?/[\w\-.]+`)
	docRefPatterns = []*regexp.Regexp{
		regexp.MustCompile(`references?/[\w\-.]+`),
		regexp.MustCompile(`\[.*\]\(.*\.md\)`),
	}
	toolKeywords = []string{"mcp", "tool", "api", "endpoint", "function", "command"}
	reShellFence = regexp.MustCompile("```(?:bash|shell|sh|zsh)")

	placeholderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\[placeholder\]`),
		regexp.MustCompile(`(?i)\[todo\]`),
		regexp.MustCompile(`(?i)\[tbd\]`),
		regexp.MustCompile(`(?i)\[fill in\]`),
		regexp.MustCompile(`(?i)xxx`),
		regexp.MustCompile(`(?i)FIXME`),
		regexp.MustCompile(`(?i)TODO`),
		regexp.MustCompile(`(?i)<your.*>`),
		regexp.MustCompile(`\.\.\.`),
	}

	exampleSectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)##?\s*example`),
		regexp.MustCompile(`(?i)##?\s*sample`),
		regexp.MustCompile(`(?i)##?\s*demo`),
	}
	outputFormatPatterns = []*regexp.Regexp{
		regexp.MustCompile(`##?\s*output`),
		regexp.MustCompile("```json"),
		regexp.MustCompile("```yaml"),
		regexp.MustCompile(`\|.*\|.*\|`),
	}
)

// checkStructure validates the skill package layout and frontmatter fields.
func checkStructure(skillDir string, frontmatter map[string]string) (float64, []Issue) {
	var issues []Issue

	if _, err := os.Stat(filepath.Join(skillDir, skillFileName)); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     "NO_SKILL_MD",
			Message:  fmt.Sprintf("SKILL.md not found in %s", skillDir),
		})
		return 0.0, issues
	}

	// A nil frontmatter has already been reported by the parser.
	if frontmatter == nil {
		return 0.0, issues
	}

	deductions := 0.0

	if _, ok := frontmatter["name"]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     "MISSING_NAME",
			Message:  "Frontmatter missing required 'name' field",
		})
		deductions += 0.3
	}

	if _, ok := frontmatter["description"]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     "MISSING_DESCRIPTION",
			Message:  "Frontmatter missing required 'description' field",
		})
		deductions += 0.3
	}

	// Sorted so repeated evaluations report extra fields in a stable order.
	keys := make([]string, 0, len(frontmatter))
	for key := range frontmatter {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := allowedFields[key]; !ok {
			issues = append(issues, Issue{
				Severity:   SeverityWarning,
				Code:       "EXTRA_FIELD",
				Message:    fmt.Sprintf("Frontmatter contains non-standard field: '%s'", key),
				Suggestion: fmt.Sprintf("Remove '%s' or move to body", key),
			})
			deductions += 0.05
		}
	}

	hasResources := false
	for _, dir := range resourceDirs {
		if _, err := os.Stat(filepath.Join(skillDir, dir)); err == nil {
			hasResources = true
			break
		}
	}
	if !hasResources {
		issues = append(issues, Issue{
			Severity:   SeverityInfo,
			Code:       "NO_RESOURCES",
			Message:    "No scripts/, references/, or assets/ directories found",
			Suggestion: "Consider adding bundled resources if applicable",
		})
	}

	score := 1.0 - deductions
	if score < 0.0 {
		score = 0.0
	}
	return score, issues
}

// checkTriggers scores how discoverable the skill is: whether the description
// states when to use it and whether the body shows example trigger phrases.
func checkTriggers(frontmatter map[string]string, body string) (float64, []Issue) {
	var issues []Issue

	if frontmatter == nil {
		return 0.0, issues
	}

	score := 0.0
	description := frontmatter["description"]
	lowerDescription := strings.ToLower(description)

	hasUsageContext := false
	for _, keyword := range usageKeywords {
		if strings.Contains(lowerDescription, keyword) {
			hasUsageContext = true
			break
		}
	}
	if hasUsageContext {
		score += 0.4
	} else {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Code:       "NO_USAGE_CONTEXT",
			Message:    "Description lacks clear usage context (e.g., 'Use when...')",
			Suggestion: "Add 'Use when...' clause to description",
		})
	}

	if len(description) < 50 {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Code:       "SHORT_DESCRIPTION",
			Message:    fmt.Sprintf("Description is only %d chars, may be too vague", len(description)),
			Suggestion: "Expand description to at least 50 characters",
		})
	} else {
		score += 0.2
	}

	hasTriggerExamples := false
	for _, pattern := range triggerBodyPatterns {
		if pattern.MatchString(body) {
			hasTriggerExamples = true
			break
		}
	}
	if hasTriggerExamples {
		score += 0.4
	} else {
		issues = append(issues, Issue{
			Severity:   SeverityInfo,
			Code:       "NO_TRIGGER_EXAMPLES",
			Message:    "No explicit trigger phrase examples found in body",
			Suggestion: `Add example trigger phrases like '"analyze this data"'`,
		})
	}

	return capScore(score), issues
}

// checkActionability scores whether the body reads as concrete, executable
// instructions rather than vague prose.
func checkActionability(body string) (float64, []Issue) {
	var issues []Issue
	score := 0.0

	hasSteps := false
	for _, pattern := range stepPatterns {
		if pattern.MatchString(body) {
			hasSteps = true
			break
		}
	}
	if hasSteps {
		score += 0.35
	} else {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Code:       "NO_STEPS",
			Message:    "No numbered or bulleted procedural steps found",
			Suggestion: "Add step-by-step instructions",
		})
	}

	if reCodeBlock.MatchString(body) {
		score += 0.25
	} else {
		issues = append(issues, Issue{
			Severity:   SeverityInfo,
			Code:       "NO_CODE_BLOCKS",
			Message:    "No code blocks found",
			Suggestion: "Add code examples for concrete guidance",
		})
	}

	lowerBody := strings.ToLower(body)
	vagueCount := 0
	for _, phrase := range vaguePhrases {
		vagueCount += strings.Count(lowerBody, phrase)
	}
	if vagueCount > 3 {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Code:       "VAGUE_LANGUAGE",
			Message:    fmt.Sprintf("Found %d vague phrases that reduce clarity", vagueCount),
			Suggestion: "Replace vague language with specific guidance",
		})
		penalty := vagueCount
		if penalty > 3 {
			penalty = 3
		}
		score -= 0.1 * float64(penalty)
	} else {
		score += 0.2
	}

	imperativeCount := len(reImperativeVerbs.FindAllString(body, -1))
	if imperativeCount >= 3 {
		score += 0.2
	} else if imperativeCount == 0 {
		issues = append(issues, Issue{
			Severity:   SeverityInfo,
			Code:       "FEW_IMPERATIVES",
			Message:    "Few imperative verbs found (run, create, check, etc.)",
			Suggestion: "Use more action-oriented language",
		})
	}

	if score < 0.0 {
		score = 0.0
	}
	return capScore(score), issues
}

// checkToolRefs scores how well the skill integrates with bundled scripts,
// reference docs, and external tools.
func checkToolRefs(skillDir, body string) (float64, []Issue) {
	var issues []Issue
	score := 0.0

	scriptRefs := reScriptRef.FindAllString(body, -1)
	scriptsDir := filepath.Join(skillDir, "scripts")

	entries, err := os.ReadDir(scriptsDir)
	if err == nil && len(entries) > 0 {
		score += 0.3
		for _, ref := range scriptRefs {
			if _, err := os.Stat(filepath.Join(skillDir, ref)); err != nil {
				issues = append(issues, Issue{
					Severity:   SeverityError,
					Code:       "BROKEN_SCRIPT_REF",
					Message:    fmt.Sprintf("Referenced script not found: %s", ref),
					Suggestion: fmt.Sprintf("Create %s or fix the reference", ref),
				})
			}
		}
	} else if len(scriptRefs) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     "SCRIPTS_DIR_MISSING",
			Message:  "Script references found but scripts/ directory missing",
		})
	}

	for _, pattern := range docRefPatterns {
		if pattern.MatchString(body) {
			score += 0.3
			break
		}
	}

	lowerBody := strings.ToLower(body)
	toolMentions := 0
	for _, keyword := range toolKeywords {
		toolMentions += strings.Count(lowerBody, keyword)
	}
	if toolMentions >= 2 {
		score += 0.2
	}

	if reShellFence.MatchString(body) {
		score += 0.2
	}

	// No tool integration at all is acceptable for simple skills: substitute
	// a neutral score instead of failing the dimension.
	if score == 0 {
		issues = append(issues, Issue{
			Severity:   SeverityInfo,
			Code:       "NO_TOOL_REFS",
			Message:    "No tool, script, or API references found",
			Suggestion: "Consider adding bundled scripts or tool guidance",
		})
		score = 0.5
	}

	return capScore(score), issues
}

// checkExamples scores the completeness of worked examples in the body.
func checkExamples(body string) (float64, []Issue) {
	var issues []Issue
	score := 0.0

	placeholderCount := 0
	for _, pattern := range placeholderPatterns {
		placeholderCount += len(pattern.FindAllString(body, -1))
	}

	switch {
	case placeholderCount == 0:
		score += 0.4
	case placeholderCount <= 2:
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Code:       "PLACEHOLDERS_FOUND",
			Message:    fmt.Sprintf("Found %d placeholder(s)", placeholderCount),
			Suggestion: "Replace placeholders with real examples",
		})
		score += 0.2
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     "MANY_PLACEHOLDERS",
			Message:  fmt.Sprintf("Found %d placeholders - skill may be incomplete", placeholderCount),
		})
	}

	hasExampleSection := false
	for _, pattern := range exampleSectionPatterns {
		if pattern.MatchString(body) {
			hasExampleSection = true
			break
		}
	}
	if hasExampleSection {
		score += 0.3
	} else {
		issues = append(issues, Issue{
			Severity: SeverityInfo,
			Code:     "NO_EXAMPLE_SECTION",
			Message:  "No dedicated Examples section found",
		})
	}

	hasOutputFormat := false
	for _, pattern := range outputFormatPatterns {
		if pattern.MatchString(body) {
			hasOutputFormat = true
			break
		}
	}
	if hasOutputFormat {
		score += 0.3
	} else {
		issues = append(issues, Issue{
			Severity:   SeverityInfo,
			Code:       "NO_OUTPUT_FORMAT",
			Message:    "No clear output format specification",
			Suggestion: "Add example output to show expected results",
		})
	}

	return capScore(score), issues
}

func capScore(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	return score
}
