// Package installer installs downloaded skill packages by shelling out to the
// skills.sh package manager (`npx skills add`).
package installer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skilleval/pkg/logger"
)

const installTimeout = 60 * time.Second

var reGitHubURL = regexp.MustCompile(`github_url:\s*(https://github\.com/\S+)`)

// SkillIDFromPackage reads SKILL.md in skillDir and derives the skills.sh
// skill ID from its github_url frontmatter field.
func SkillIDFromPackage(skillDir string) (string, error) {
	skillMD := filepath.Join(skillDir, "SKILL.md")
	content, err := os.ReadFile(skillMD)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", skillMD)
	}

	match := reGitHubURL.FindSubmatch(content)
	if match == nil {
		return "", errors.Errorf("could not find github_url in %s", skillMD)
	}

	return strings.TrimPrefix(string(match[1]), "https://github.com/"), nil
}

// Install installs the skill package at skillDir with `npx skills add`.
// Installer output is surfaced in the error on failure.
func Install(ctx context.Context, skillDir string) error {
	skillID, err := SkillIDFromPackage(skillDir)
	if err != nil {
		return err
	}

	log := logger.G(ctx).WithField("skill_id", skillID)
	log.Info("installing skill")

	ctx, cancel := context.WithTimeout(ctx, installTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "npx", "skills", "add", skillID)
	if output, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "failed to install skill %s: %s", skillID, string(output))
	}

	log.Info("skill installed")
	return nil
}

// ManualInstallCommand returns the command line a user can run to install the
// package themselves, for use in failure messages.
func ManualInstallCommand(skillDir string) string {
	skillID, err := SkillIDFromPackage(skillDir)
	if err != nil {
		return ""
	}
	return "npx skills add " + skillID
}
