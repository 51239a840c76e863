package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leaderboardHTML = `<html><body>
<a href="/anthropics/skills/pdf">pdf - 1.2K installs</a>
<a href="/acme/kit/docx">docx toolkit 300 installs</a>
<a href="/about">About</a>
<a href="https://github.com/acme/kit/docx">external link</a>
<a href="/anthropics/skills/pdf">duplicate entry</a>
</body></html>`

const detailHTML = `<html><body>
<h1>Docx Toolkit</h1>
<p>Convert <strong>Word</strong> documents.</p>
<span class="tag">documents</span>
<span class="tag">office</span>
<div>2.5K installs</div>
</body></html>`

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(leaderboardHTML))
		case "/acme/kit/docx":
			w.Write([]byte(detailHTML))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchLeaderboard(t *testing.T) {
	server := newCatalogServer(t)
	client := NewClient(WithBaseURL(server.URL))

	t.Run("scrapes deduplicates and sorts by installs", func(t *testing.T) {
		skills, err := client.FetchLeaderboard(context.Background(), 0)
		require.NoError(t, err)

		require.Len(t, skills, 2)
		assert.Equal(t, "anthropics/skills/pdf", skills[0].ID)
		assert.Equal(t, "pdf", skills[0].Name)
		assert.Equal(t, 1200, skills[0].Installs)
		assert.Equal(t, server.URL+"/anthropics/skills/pdf", skills[0].URL)

		assert.Equal(t, "acme/kit/docx", skills[1].ID)
		assert.Equal(t, 300, skills[1].Installs)
	})

	t.Run("limit truncates the list", func(t *testing.T) {
		skills, err := client.FetchLeaderboard(context.Background(), 1)
		require.NoError(t, err)

		require.Len(t, skills, 1)
		assert.Equal(t, "anthropics/skills/pdf", skills[0].ID)
	})
}

func TestSearch(t *testing.T) {
	server := newCatalogServer(t)
	client := NewClient(WithBaseURL(server.URL))

	t.Run("matches name and snippet", func(t *testing.T) {
		skills, err := client.Search(context.Background(), []string{"docx"}, 0)
		require.NoError(t, err)

		require.Len(t, skills, 1)
		assert.Equal(t, "acme/kit/docx", skills[0].ID)
		// 3 for the name match plus 2 for the snippet match.
		assert.Equal(t, 5, skills[0].Relevance)
	})

	t.Run("no matches", func(t *testing.T) {
		skills, err := client.Search(context.Background(), []string{"spreadsheet"}, 0)
		require.NoError(t, err)
		assert.Empty(t, skills)
	})
}

func TestGetSkillDetails(t *testing.T) {
	server := newCatalogServer(t)
	client := NewClient(WithBaseURL(server.URL))

	details, err := client.GetSkillDetails(context.Background(), "acme/kit/docx")
	require.NoError(t, err)

	assert.Equal(t, "acme/kit/docx", details.ID)
	assert.Equal(t, "Docx Toolkit", details.Name)
	assert.Equal(t, "Convert **Word** documents.", details.Description)
	assert.Equal(t, []string{"documents", "office"}, details.Tags)
	assert.Equal(t, 2500, details.Installs)
	assert.Equal(t, "https://github.com/acme/kit/docx", details.GitHubURL)
	assert.Equal(t, server.URL+"/acme/kit/docx", details.SkillURL)
}

func TestCatalogRequestsOmitGitHubToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(leaderboardHTML))
	}))
	t.Cleanup(server.Close)

	// The GitHub token authenticates api.github.com calls only; it must never
	// reach the catalog host.
	client := NewClient(WithBaseURL(server.URL), WithGitHubToken("secret-token"))

	_, err := client.FetchLeaderboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	gotAuth = "unset"
	_, err = client.GetSkillDetails(context.Background(), "anthropics/skills/pdf")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestSkillIDFromHref(t *testing.T) {
	tests := []struct {
		href string
		id   string
		ok   bool
	}{
		{"/anthropics/skills/pdf", "anthropics/skills/pdf", true},
		{"/anthropics/skills/pdf/", "anthropics/skills/pdf", true},
		{"/owner/repo/skill/extra", "owner/repo/skill", true},
		{"/about", "", false},
		{"/owner/repo", "", false},
		{"https://github.com/owner/repo/skill", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			id, ok := skillIDFromHref(tt.href)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestParseInstallCount(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"1.2K installs", 1200},
		{"300 installs", 300},
		{"45k", 45000},
		{"no numbers here", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseInstallCount(tt.text), "text=%q", tt.text)
	}
}
