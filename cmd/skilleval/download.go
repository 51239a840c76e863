package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skilleval/pkg/installer"
	"github.com/jingkaihe/skilleval/pkg/presenter"
	"github.com/jingkaihe/skilleval/pkg/registry"
)

type DownloadConfig struct {
	Install bool
}

func NewDownloadConfig() *DownloadConfig {
	return &DownloadConfig{
		Install: false,
	}
}

var downloadCmd = &cobra.Command{
	Use:   "download <skill-id> <output-dir>",
	Short: "Download a skill from the skills.sh catalog",
	Long: `Download a skill by its catalog ID (owner/repo/skill-name) into a local
skill package directory. With --install, the downloaded skill is also
installed via the skills.sh package manager.

Examples:
  skilleval download anthropics/skills/pdf ./skills
  skilleval download anthropics/skills/pdf ~/.opencode/skill --install`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		config := getDownloadConfigFromFlags(cmd)
		if err := runDownload(cmd, args[0], args[1], config); err != nil {
			presenter.Error(err, "Download failed")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewDownloadConfig()
	downloadCmd.Flags().Bool("install", defaults.Install, "Install the skill after downloading")
	rootCmd.AddCommand(downloadCmd)
}

func getDownloadConfigFromFlags(cmd *cobra.Command) *DownloadConfig {
	config := NewDownloadConfig()
	if install, err := cmd.Flags().GetBool("install"); err == nil {
		config.Install = install
	}
	return config
}

func runDownload(cmd *cobra.Command, skillID, outputDir string, config *DownloadConfig) error {
	client := registry.NewClient(
		registry.WithGitHubToken(viper.GetString("github_token")),
	)

	downloaded, err := client.Download(cmd.Context(), skillID, outputDir)
	if err != nil {
		return err
	}

	presenter.Success(fmt.Sprintf("Downloaded skill to: %s", downloaded.Dir))
	presenter.Info(fmt.Sprintf("GitHub URL: %s", downloaded.GitHubURL))

	if config.Install {
		if err := installer.Install(cmd.Context(), downloaded.Dir); err != nil {
			presenter.Error(err, "Installation failed")
			presenter.Info("You can install it manually with: " + installer.ManualInstallCommand(downloaded.Dir))
			os.Exit(1)
		}
		presenter.Success("Skill installed")
	} else {
		presenter.Info("Install it later with: " + installer.ManualInstallCommand(downloaded.Dir))
	}
	return nil
}
