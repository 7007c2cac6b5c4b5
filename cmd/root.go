package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repo-browser/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "repobrowse",
	Short: "Browse GitHub repositories in a local web page",
	Long: `repobrowse serves a lazily loaded file tree for one or more GitHub
repositories. Directories are listed on first expansion and cached for the
page; files open in a preview modal with syntax highlighting.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
