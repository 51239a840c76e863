package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/skilleval/pkg/logger"
)

const skillFileName = "SKILL.md"

// skillFrontmatter is the YAML header written into downloaded SKILL.md files.
// Field order here is the order emitted.
type skillFrontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	GitHubURL   string `yaml:"github_url"`
	GitHubHash  string `yaml:"github_hash"`
	Version     string `yaml:"version"`
	CreatedAt   string `yaml:"created_at"`
	Source      string `yaml:"source"`
	Installs    int    `yaml:"installs"`
}

// githubRepo is the subset of the GitHub repos API response we consume.
type githubRepo struct {
	Description     string `json:"description"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	StargazersCount int    `json:"stargazers_count"`
}

// DownloadedSkill describes a skill package written by Download.
type DownloadedSkill struct {
	ID        string
	Name      string
	Dir       string
	GitHubURL string
}

var skillBodyTemplate = template.Must(template.New("skill").Parse(`# {{.Name}}

This skill was downloaded from skills.sh and is part of the Open Agent Skills Ecosystem.

## Overview

{{.Overview}}

## Installation

Install this skill using:
` + "```bash" + `
npx skills add {{.ID}}
` + "```" + `

## Source

- **Skills.sh**: https://skills.sh/{{.ID}}
- **GitHub**: {{.GitHubURL}}
`))

// Download fetches repository metadata for a skill ID from the GitHub API and
// writes a templated SKILL.md package under outputDir. The written file is
// verified to parse back as a valid skill before returning.
func (c *Client) Download(ctx context.Context, id, outputDir string) (*DownloadedSkill, error) {
	log := logger.G(ctx).WithField("skill_id", id)
	log.Info("downloading skill from GitHub")

	body, err := c.getGitHub(ctx, fmt.Sprintf("%s/repos/%s", c.githubAPIURL, id))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch GitHub metadata for %s", id)
	}

	var repo githubRepo
	if err := json.Unmarshal(body, &repo); err != nil {
		return nil, errors.Wrap(err, "failed to decode GitHub API response")
	}

	name := id[strings.LastIndex(id, "/")+1:]
	githubURL := "https://github.com/" + id

	skillDir := filepath.Join(outputDir, name)
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create skill directory %s", skillDir)
	}

	content, err := renderSkillMD(id, name, githubURL, repo)
	if err != nil {
		return nil, err
	}

	skillPath := filepath.Join(skillDir, skillFileName)
	if err := os.WriteFile(skillPath, content, 0o644); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", skillPath)
	}

	if err := verifySkillMD(content); err != nil {
		return nil, errors.Wrapf(err, "downloaded skill at %s is not a valid package", skillDir)
	}

	log.WithField("dir", skillDir).Info("downloaded skill")
	return &DownloadedSkill{
		ID:        id,
		Name:      name,
		Dir:       skillDir,
		GitHubURL: githubURL,
	}, nil
}

func renderSkillMD(id, name, githubURL string, repo githubRepo) ([]byte, error) {
	description := repo.Description
	if description == "" {
		// Repos without a description would otherwise fail verification.
		description = fmt.Sprintf("Skill package %s downloaded from skills.sh", id)
	}

	frontmatter := skillFrontmatter{
		Name:        name,
		Description: truncate(description, 200),
		GitHubURL:   githubURL,
		GitHubHash:  orUnknown(repo.UpdatedAt),
		Version:     "1.0.0",
		CreatedAt:   orUnknown(repo.CreatedAt),
		Source:      "skills.sh",
		Installs:    repo.StargazersCount,
	}

	header, err := yaml.Marshal(frontmatter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal frontmatter")
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")

	err = skillBodyTemplate.Execute(&buf, map[string]string{
		"ID":        id,
		"Name":      name,
		"GitHubURL": githubURL,
		"Overview":  truncate(repo.Description, 500),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render skill body")
	}

	return buf.Bytes(), nil
}

// verifySkillMD parses the generated file the same way skill consumers do and
// rejects it when the required frontmatter fields are missing.
func verifySkillMD(content []byte) error {
	markdown := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := markdown.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return errors.New("missing frontmatter")
	}

	if name, _ := metaData["name"].(string); name == "" {
		return errors.New("skill name is required in frontmatter")
	}
	if description, _ := metaData["description"].(string); description == "" {
		return errors.New("skill description is required in frontmatter")
	}

	return nil
}

// truncate limits s to at most limit runes so multi-byte text is never cut
// mid-character.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
