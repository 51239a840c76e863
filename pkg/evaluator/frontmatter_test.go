package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontmatter(t *testing.T) {
	t.Run("no frontmatter", func(t *testing.T) {
		content := "# Just a heading\n\nSome body text.\n"
		frontmatter, body, issues := ParseFrontmatter(content)

		assert.Nil(t, frontmatter)
		assert.Equal(t, content, body)
		require.Len(t, issues, 1)
		assert.Equal(t, "NO_FRONTMATTER", issues[0].Code)
		assert.Equal(t, SeverityError, issues[0].Severity)
	})

	t.Run("missing closing delimiter", func(t *testing.T) {
		content := "---\nname: broken\n\n# Body without closing\n"
		frontmatter, _, issues := ParseFrontmatter(content)

		assert.Nil(t, frontmatter)
		require.Len(t, issues, 1)
		assert.Equal(t, "MALFORMED_FRONTMATTER", issues[0].Code)
	})

	t.Run("valid frontmatter", func(t *testing.T) {
		content := `---
name: test-skill
description: "A quoted description"
license: 'MIT'
# a comment line

tags: pdf, docs
---

# Test Skill

Body content here.
`
		frontmatter, body, issues := ParseFrontmatter(content)

		require.NotNil(t, frontmatter)
		assert.Empty(t, issues)
		assert.Equal(t, "test-skill", frontmatter["name"])
		assert.Equal(t, "A quoted description", frontmatter["description"])
		assert.Equal(t, "MIT", frontmatter["license"])
		assert.Equal(t, "pdf, docs", frontmatter["tags"])
		assert.Equal(t, "# Test Skill\n\nBody content here.", body)
	})

	t.Run("value containing colon splits on first colon only", func(t *testing.T) {
		content := "---\ndescription: see https://example.com/docs\n---\nbody\n"
		frontmatter, _, issues := ParseFrontmatter(content)

		require.NotNil(t, frontmatter)
		assert.Empty(t, issues)
		assert.Equal(t, "see https://example.com/docs", frontmatter["description"])
	})

	t.Run("last occurrence of duplicate key wins", func(t *testing.T) {
		content := "---\nname: first\nname: second\n---\nbody\n"
		frontmatter, _, _ := ParseFrontmatter(content)

		require.NotNil(t, frontmatter)
		assert.Equal(t, "second", frontmatter["name"])
	})

	t.Run("duplicate frontmatter block", func(t *testing.T) {
		content := "---\nname: copy-paste\n---\n---\nname: copy-paste\n---\n\nbody\n"
		frontmatter, _, issues := ParseFrontmatter(content)

		require.NotNil(t, frontmatter)
		assert.Equal(t, "copy-paste", frontmatter["name"])
		require.Len(t, issues, 1)
		assert.Equal(t, "DUPLICATE_FRONTMATTER", issues[0].Code)
		assert.Equal(t, SeverityError, issues[0].Severity)
		assert.NotEmpty(t, issues[0].Suggestion)
	})
}
