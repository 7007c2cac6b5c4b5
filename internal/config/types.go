package config

// Repository is one browser mounted in the page.
type Repository struct {
	Container string `yaml:"container" koanf:"container"`
	Owner     string `yaml:"owner" koanf:"owner"`
	Repo      string `yaml:"repo" koanf:"repo"`
}

// Config is the top-level repobrowse configuration, corresponding to .repobrowse.yml.
type Config struct {
	Port              int          `yaml:"port" koanf:"port"`
	OpenBrowser       bool         `yaml:"open_browser" koanf:"open_browser"`
	APIBaseURL        string       `yaml:"api_base_url" koanf:"api_base_url"`
	WebBaseURL        string       `yaml:"web_base_url" koanf:"web_base_url"`
	NotebookViewerURL string       `yaml:"notebook_viewer_url" koanf:"notebook_viewer_url"`
	DefaultBranch     string       `yaml:"default_branch" koanf:"default_branch"`
	Highlight         bool         `yaml:"highlight" koanf:"highlight"`
	HighlightStyle    string       `yaml:"highlight_style" koanf:"highlight_style"`
	LogLevel          string       `yaml:"log_level" koanf:"log_level"`
	Repositories      []Repository `yaml:"repositories" koanf:"repositories"`
}
