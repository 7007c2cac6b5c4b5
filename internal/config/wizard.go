package config

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// highlightStyles are the chroma styles offered by the wizard.
var highlightStyles = []string{"github", "monokai", "dracula", "nord", "solarized-light"}

// detectRepository reads the origin remote of the current directory, if
// it is a GitHub checkout.
func detectRepository() string {
	out, err := exec.Command("git", "config", "--get", "remote.origin.url").Output()
	if err != nil {
		return ""
	}
	return repositoryFromRemote(strings.TrimSpace(string(out)))
}

// repositoryFromRemote extracts "owner/repo" from an https or ssh GitHub
// remote URL.
func repositoryFromRemote(remote string) string {
	remote = strings.TrimSuffix(remote, ".git")
	for _, prefix := range []string{"https://github.com/", "http://github.com/", "git@github.com:", "ssh://git@github.com/"} {
		if rest, ok := strings.CutPrefix(remote, prefix); ok {
			if _, err := ParseRepository(rest); err == nil {
				return rest
			}
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to repobrowse! Let's configure your file browser.")
	fmt.Println()

	// 1. Repository.
	detected := detectRepository()
	if detected != "" {
		fmt.Printf("Detected GitHub repository: %s\n\n", detected)
	}
	repoPrompt := promptui.Prompt{
		Label:   "Repository (owner/repo)",
		Default: detected,
		Validate: func(s string) error {
			_, err := ParseRepository(s)
			return err
		},
	}
	repoStr, err := repoPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("repository: %w", err)
	}
	repo, _ := ParseRepository(repoStr)

	// 2. Port.
	portPrompt := promptui.Prompt{
		Label:   "Port to serve on",
		Default: "8080",
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 || n > 65535 {
				return fmt.Errorf("enter a port between 0 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 3. Highlight style.
	stylePrompt := promptui.Select{
		Label: "Syntax highlighting style",
		Items: append([]string{"none"}, highlightStyles...),
	}
	_, style, err := stylePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("highlight style: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Port = port
	cfg.Repositories = []Repository{repo}
	if style == "none" {
		cfg.Highlight = false
	} else {
		cfg.HighlightStyle = style
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
