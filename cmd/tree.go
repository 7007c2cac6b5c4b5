package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repo-browser/internal/gateway"
	"github.com/ziadkadry99/repo-browser/internal/present"
	"github.com/ziadkadry99/repo-browser/internal/tree"
)

var treeDepth int

var treeCmd = &cobra.Command{
	Use:   "tree OWNER/REPO [PATH]",
	Short: "Print a repository's file tree",
	Long:  `Lists the repository below PATH in browser order: directories first, then files, each sorted by name, with ignored entries left out.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := parseCoordinate(args[0])
		if err != nil {
			return err
		}
		root := ""
		if len(args) == 2 {
			root = strings.Trim(args[1], "/")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := gateway.NewClient(gatewayOptions(cfg, newLogger(cfg))...)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", present.FolderIcon, client.RepoURL(coord))
		return tree.Walk(cmd.Context(), client, coord, root, treeDepth, func(e gateway.Entry, depth int) error {
			printTreeLine(out, e, depth)
			return nil
		})
	},
}

func printTreeLine(w io.Writer, e gateway.Entry, depth int) {
	indent := strings.Repeat("  ", depth+1)
	if e.IsDir() {
		fmt.Fprintf(w, "%s%s %s/\n", indent, present.FolderIcon, e.Name)
		return
	}
	if size := present.FormatSize(e.Size); size != "" {
		fmt.Fprintf(w, "%s%s %s  (%s)\n", indent, present.Icon(e.Name), e.Name, size)
		return
	}
	fmt.Fprintf(w, "%s%s %s\n", indent, present.Icon(e.Name), e.Name)
}

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", 0, "Maximum number of levels to list (0 lists everything)")
	rootCmd.AddCommand(treeCmd)
}
