package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repo-browser/internal/config"
)

// Version is set via ldflags at build time.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of repobrowse and the API it talks to",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "repobrowse %s\n", Version)
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(out, "  config:  %s (unreadable: %v)\n", cfgFile, err)
			return
		}
		fmt.Fprintf(out, "  api:     %s\n", cfg.APIBaseURL)
		fmt.Fprintf(out, "  web:     %s\n", cfg.WebBaseURL)
		fmt.Fprintf(out, "  mounted: %d repositories\n", len(cfg.Repositories))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
