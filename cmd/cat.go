package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repo-browser/internal/config"
	"github.com/ziadkadry99/repo-browser/internal/gateway"
	"github.com/ziadkadry99/repo-browser/internal/present"
	"github.com/ziadkadry99/repo-browser/internal/viewer"
)

var catColor string

var catCmd = &cobra.Command{
	Use:   "cat OWNER/REPO PATH",
	Short: "Print a repository file the way the preview shows it",
	Long: `Prints a text file, truncated to the preview limit and optionally highlighted.
Binary, image and notebook files are not downloaded; a notice with links is
printed instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := parseCoordinate(args[0])
		if err != nil {
			return err
		}
		target := strings.Trim(args[1], "/")
		if target == "" {
			return fmt.Errorf("path is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := gateway.NewClient(gatewayOptions(cfg, newLogger(cfg))...)

		entry, err := findEntry(cmd.Context(), client, coord, target)
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return fmt.Errorf("%s is a directory; use `repobrowse tree %s %s`", target, coord, target)
		}

		out := cmd.OutOrStdout()
		size := present.FormatSize(entry.Size)
		switch viewer.Classify(entry.Name) {
		case viewer.KindBinary:
			fmt.Fprintf(out, "📦 Binary file: %s\nView on GitHub: %s\n", size, entry.HTMLURL)
			return nil
		case viewer.KindImage:
			fmt.Fprintf(out, "🖼️ Image: %s\nRaw: %s\n", entry.Name, entry.DownloadURL)
			return nil
		case viewer.KindNotebook:
			fmt.Fprintf(out, "📓 Jupyter Notebook: %s\nOpen in nbviewer: %s\nView on GitHub: %s\n", size,
				viewer.NotebookURL(cfg.NotebookViewerURL, cfg.DefaultBranch, coord, entry.Path), entry.HTMLURL)
			return nil
		}

		text, err := client.FetchRaw(cmd.Context(), entry.DownloadURL)
		if err != nil {
			return err
		}
		text, _ = viewer.Truncate(text, entry.Size)

		if useColor(cfg, out) {
			lang := present.Language(present.Ext(entry.Name))
			if err := viewer.HighlightTerminal(out, text, lang, cfg.HighlightStyle); err == nil {
				return nil
			}
		}
		_, err = fmt.Fprint(out, text)
		return err
	},
}

// findEntry looks target up in its parent directory's listing.
func findEntry(ctx context.Context, client *gateway.Client, coord gateway.Coordinate, target string) (gateway.Entry, error) {
	dir := path.Dir(target)
	if dir == "." {
		dir = ""
	}
	entries, err := client.FetchContents(ctx, coord, dir)
	if err != nil {
		return gateway.Entry{}, err
	}
	for _, e := range entries {
		if e.Path == target {
			return e, nil
		}
	}
	return gateway.Entry{}, fmt.Errorf("%s: no such file in %s", target, coord)
}

func useColor(cfg *config.Config, out io.Writer) bool {
	switch catColor {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := out.(*os.File)
	return ok && cfg.Highlight && isatty.IsTerminal(f.Fd())
}

func init() {
	catCmd.Flags().StringVar(&catColor, "color", "auto", "Highlight output: auto, always or never")
	rootCmd.AddCommand(catCmd)
}
