package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skilleval/pkg/presenter"
	"github.com/jingkaihe/skilleval/pkg/registry"
)

type SearchConfig struct {
	Limit int
}

func NewSearchConfig() *SearchConfig {
	return &SearchConfig{
		Limit: 10,
	}
}

var searchCmd = &cobra.Command{
	Use:   "search <keywords...>",
	Short: "Search the skills.sh catalog",
	Long: `Search the skills.sh leaderboard for skills matching the given keywords,
ranked by relevance.

Examples:
  skilleval search pdf document
  skilleval search kubernetes --limit 5`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getSearchConfigFromFlags(cmd)
		if err := runSearch(cmd, args, config); err != nil {
			presenter.Error(err, "Search failed")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewSearchConfig()
	searchCmd.Flags().Int("limit", defaults.Limit, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func getSearchConfigFromFlags(cmd *cobra.Command) *SearchConfig {
	config := NewSearchConfig()
	if limit, err := cmd.Flags().GetInt("limit"); err == nil {
		config.Limit = limit
	}
	return config
}

func runSearch(cmd *cobra.Command, keywords []string, config *SearchConfig) error {
	client := registry.NewClient()

	skills, err := client.Search(cmd.Context(), keywords, config.Limit)
	if err != nil {
		return err
	}

	if len(skills) == 0 {
		presenter.Info(fmt.Sprintf("No skills found matching: %s", strings.Join(keywords, ", ")))
		return nil
	}

	presenter.Info(fmt.Sprintf("Found %d skill(s) matching: %s\n", len(skills), strings.Join(keywords, ", ")))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKILL ID\tINSTALLS\tRELEVANCE\tURL")
	fmt.Fprintln(tw, "--------\t--------\t---------\t---")
	for _, skill := range skills {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", skill.ID, skill.Installs, skill.Relevance, skill.URL)
	}
	return tw.Flush()
}
