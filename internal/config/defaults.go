package config

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = ".repobrowse.yml"

// DefaultConfig returns a Config with sensible defaults. It mounts no
// repositories; those come from the file, the environment or flags.
func DefaultConfig() *Config {
	return &Config{
		Port:              8080,
		OpenBrowser:       false,
		APIBaseURL:        "https://api.github.com",
		WebBaseURL:        "https://github.com",
		NotebookViewerURL: "https://nbviewer.org/github",
		DefaultBranch:     "main",
		Highlight:         true,
		HighlightStyle:    "github",
		LogLevel:          "info",
	}
}
