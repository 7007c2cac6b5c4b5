package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "REPOBROWSE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (REPOBROWSE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// REPOBROWSE_API_BASE_URL -> api_base_url, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// namePattern matches GitHub owner and repository names.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// containerPattern matches HTML ids usable as host containers.
var containerPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	for name, raw := range map[string]string{
		"api_base_url":        c.APIBaseURL,
		"web_base_url":        c.WebBaseURL,
		"notebook_viewer_url": c.NotebookViewerURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
		}
	}

	if c.DefaultBranch == "" {
		return fmt.Errorf("default_branch is required")
	}

	seen := make(map[string]bool)
	for i, r := range c.Repositories {
		if !namePattern.MatchString(r.Owner) {
			return fmt.Errorf("repositories[%d]: invalid owner %q", i, r.Owner)
		}
		if !namePattern.MatchString(r.Repo) {
			return fmt.Errorf("repositories[%d]: invalid repo %q", i, r.Repo)
		}
		container := r.ContainerID()
		if !containerPattern.MatchString(container) {
			return fmt.Errorf("repositories[%d]: invalid container %q", i, container)
		}
		if seen[container] {
			return fmt.Errorf("repositories[%d]: duplicate container %q", i, container)
		}
		seen[container] = true
	}

	return nil
}

// ContainerID returns the host container id, deriving one from the repo
// name when none is configured.
func (r Repository) ContainerID() string {
	if r.Container != "" {
		return r.Container
	}
	return "files-" + strings.ToLower(strings.NewReplacer(".", "-", "_", "-").Replace(r.Repo))
}

// ParseRepository parses "owner/repo".
func ParseRepository(s string) (Repository, error) {
	owner, repo, ok := strings.Cut(strings.Trim(strings.TrimSpace(s), "/"), "/")
	if !ok || !namePattern.MatchString(owner) || !namePattern.MatchString(repo) {
		return Repository{}, fmt.Errorf("expected OWNER/REPO, got %q", s)
	}
	return Repository{Owner: owner, Repo: repo}, nil
}
