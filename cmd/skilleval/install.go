package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skilleval/pkg/installer"
	"github.com/jingkaihe/skilleval/pkg/presenter"
)

var installCmd = &cobra.Command{
	Use:   "install <skill-dir>",
	Short: "Install a downloaded skill package",
	Long: `Install a local skill package via the skills.sh package manager
(npx skills add). The package's SKILL.md must carry a github_url field.

Examples:
  skilleval install ./skills/pdf`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		skillDir := args[0]
		presenter.Info(fmt.Sprintf("Installing skill from: %s", skillDir))

		if err := installer.Install(cmd.Context(), skillDir); err != nil {
			presenter.Error(err, "Installation failed")
			if manual := installer.ManualInstallCommand(skillDir); manual != "" {
				presenter.Info("You can try manually with: " + manual)
			}
			os.Exit(1)
		}
		presenter.Success("Skill installed")
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
