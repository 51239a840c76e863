package registry

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skilleval/pkg/logger"
)

// SkillSummary is one entry scraped from the catalog leaderboard.
type SkillSummary struct {
	ID       string // owner/repo/skill-name
	Name     string
	Installs int
	URL      string
	Snippet  string
	// Relevance is only populated by Search.
	Relevance int
}

// SkillDetails holds the scraped detail page for a single skill.
type SkillDetails struct {
	ID          string
	Name        string
	Description string // converted to markdown
	Tags        []string
	Installs    int
	GitHubURL   string
	SkillURL    string
}

var reInstallCount = regexp.MustCompile(`(\d+(?:\.\d+)?)([Kk])?`)

// reClassTag matches the CSS class names the catalog uses for tag chips.
var reClassTag = regexp.MustCompile(`(?i)tag|badge|category`)

// FetchLeaderboard scrapes the catalog homepage and returns up to limit
// skills, deduplicated by ID and sorted by install count descending.
func (c *Client) FetchLeaderboard(ctx context.Context, limit int) ([]SkillSummary, error) {
	log := logger.G(ctx)
	log.WithField("limit", limit).Debug("fetching catalog leaderboard")

	body, err := c.get(ctx, c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch leaderboard")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse leaderboard HTML")
	}

	seen := make(map[string]struct{})
	var skills []SkillSummary

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		id, ok := skillIDFromHref(href)
		if !ok {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}

		text := strings.TrimSpace(sel.Text())
		skills = append(skills, SkillSummary{
			ID:       id,
			Name:     id[strings.LastIndex(id, "/")+1:],
			Installs: parseInstallCount(text),
			URL:      c.baseURL + href,
			Snippet:  text,
		})
	})

	sort.SliceStable(skills, func(i, j int) bool {
		return skills[i].Installs > skills[j].Installs
	})

	if limit > 0 && len(skills) > limit {
		skills = skills[:limit]
	}

	log.WithField("count", len(skills)).Debug("fetched leaderboard skills")
	return skills, nil
}

// Search fetches the leaderboard and filters it by keyword relevance. Name
// matches weigh three times a snippet match.
func (c *Client) Search(ctx context.Context, keywords []string, limit int) ([]SkillSummary, error) {
	// Pull a deep leaderboard so the keyword filter has enough candidates.
	skills, err := c.FetchLeaderboard(ctx, 100)
	if err != nil {
		return nil, err
	}

	lowered := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		lowered = append(lowered, strings.ToLower(keyword))
	}

	var matched []SkillSummary
	for _, skill := range skills {
		name := strings.ToLower(skill.Name)
		snippet := strings.ToLower(skill.Snippet)

		relevance := 0
		for _, keyword := range lowered {
			if strings.Contains(name, keyword) {
				relevance += 3
			}
			if strings.Contains(snippet, keyword) {
				relevance += 2
			}
		}
		if relevance > 0 {
			skill.Relevance = relevance
			matched = append(matched, skill)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Relevance > matched[j].Relevance
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// GetSkillDetails scrapes the detail page for a skill ID. The description is
// converted from HTML to markdown.
func (c *Client) GetSkillDetails(ctx context.Context, id string) (*SkillDetails, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/%s", c.baseURL, id))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch details for %s", id)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse detail page HTML")
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		name = strings.TrimSpace(doc.Find("h2").First().Text())
	}
	if name == "" {
		name = id[strings.LastIndex(id, "/")+1:]
	}

	description := ""
	if para := doc.Find("p").First(); para.Length() > 0 {
		if html, err := goquery.OuterHtml(para); err == nil {
			description = htmlToMarkdown(ctx, html)
		}
	}

	var tags []string
	doc.Find("span, a").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if !reClassTag.MatchString(class) {
			return
		}
		tag := strings.TrimSpace(sel.Text())
		if tag != "" && len(tag) < 30 {
			tags = append(tags, tag)
		}
	})

	return &SkillDetails{
		ID:          id,
		Name:        name,
		Description: description,
		Tags:        tags,
		Installs:    parseInstallCount(doc.Text()),
		GitHubURL:   "https://github.com/" + id,
		SkillURL:    fmt.Sprintf("%s/%s", c.baseURL, id),
	}, nil
}

// skillIDFromHref extracts an owner/repo/skill-name ID from a catalog link.
func skillIDFromHref(href string) (string, bool) {
	if !strings.HasPrefix(href, "/") {
		return "", false
	}
	parts := strings.Split(strings.Trim(href, "/"), "/")
	if len(parts) < 3 {
		return "", false
	}
	for _, part := range parts[:3] {
		if part == "" {
			return "", false
		}
	}
	return strings.Join(parts[:3], "/"), true
}

// parseInstallCount extracts the first install figure from text, handling
// the "1.2K" shorthand the catalog uses.
func parseInstallCount(text string) int {
	match := reInstallCount.FindStringSubmatch(text)
	if match == nil {
		return 0
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	if match[2] != "" {
		value *= 1000
	}
	return int(value)
}

func htmlToMarkdown(ctx context.Context, html string) string {
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to convert HTML to markdown, keeping raw text")
		return html
	}
	return strings.TrimSpace(markdown)
}
