package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repo-browser/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a repobrowse config file with an interactive wizard",
	Long:  `Asks for the repository to mount, the port and the highlighting style, then writes them to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		for _, r := range cfg.Repositories {
			fmt.Fprintf(cmd.OutOrStdout(), "Mounted %s/%s in #%s. Run `repobrowse serve` to browse it.\n",
				r.Owner, r.Repo, r.ContainerID())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
