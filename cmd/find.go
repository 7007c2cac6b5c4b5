package cmd

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repo-browser/internal/gateway"
	"github.com/ziadkadry99/repo-browser/internal/progress"
	"github.com/ziadkadry99/repo-browser/internal/tree"
)

var (
	findPath  string
	findDepth int
)

var findCmd = &cobra.Command{
	Use:   "find OWNER/REPO PATTERN",
	Short: "Find repository paths matching a glob",
	Long: `Walks the repository and prints every path matching PATTERN. Patterns use
doublestar syntax ("**/*.py", "docs/**"); a pattern without a slash is
matched against entry names.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := parseCoordinate(args[0])
		if err != nil {
			return err
		}
		pattern := args[1]
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid pattern %q", pattern)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := gateway.NewClient(gatewayOptions(cfg, newLogger(cfg))...)

		reporter := progress.NewReporter(cmd.ErrOrStderr(), "Scanning "+coord.String())
		reporter.Start(-1)
		matches, err := findMatches(cmd.Context(), client, coord, strings.Trim(findPath, "/"), findDepth, pattern, reporter)
		reporter.Finish()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, m := range matches {
			fmt.Fprintln(out, m)
		}
		if len(matches) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "No paths match %q\n", pattern)
		}
		return nil
	},
}

func findMatches(ctx context.Context, lister tree.Lister, coord gateway.Coordinate, root string, maxDepth int, pattern string, reporter progress.Reporter) ([]string, error) {
	byName := !strings.Contains(pattern, "/")
	var matches []string
	visited := 0
	err := tree.Walk(ctx, lister, coord, root, maxDepth, func(e gateway.Entry, depth int) error {
		visited++
		reporter.Update(visited, e.Path)

		subject := e.Path
		if byName {
			subject = path.Base(e.Path)
		}
		if ok, _ := doublestar.Match(pattern, subject); ok {
			matches = append(matches, e.Path)
		}
		return nil
	})
	return matches, err
}

func init() {
	findCmd.Flags().StringVar(&findPath, "path", "", "Directory to search below")
	findCmd.Flags().IntVar(&findDepth, "depth", 0, "Maximum number of levels to search (0 searches everything)")
	rootCmd.AddCommand(findCmd)
}
