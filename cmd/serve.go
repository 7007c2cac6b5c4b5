package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repo-browser/internal/config"
	"github.com/ziadkadry99/repo-browser/internal/gateway"
	"github.com/ziadkadry99/repo-browser/internal/server"
	"github.com/ziadkadry99/repo-browser/internal/viewer"
)

var (
	servePort  int
	serveOpen  bool
	serveRepos []string
	serveDev   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [OWNER/REPO...]",
	Short: "Serve the repository file browser",
	Long: `Starts a local web server that renders a file browser for every
repository given on the command line or listed in the config file. All
browsers on the page share one preview modal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		repos := cfg.Repositories
		for _, arg := range append(args, serveRepos...) {
			r, err := config.ParseRepository(arg)
			if err != nil {
				return err
			}
			repos = append(repos, r)
		}
		if len(repos) == 0 {
			return fmt.Errorf("no repositories to serve: pass OWNER/REPO or add repositories to %s", cfgFile)
		}
		cfg.Repositories = repos
		if err := cfg.Validate(); err != nil {
			return err
		}

		log := newLogger(cfg)

		mounts := make([]server.Mount, 0, len(repos))
		for _, r := range repos {
			mounts = append(mounts, server.Mount{
				Container:  r.ContainerID(),
				Coordinate: gateway.Coordinate{Owner: r.Owner, Repo: r.Repo},
			})
		}

		modalOpts := []viewer.ModalOption{
			viewer.WithNotebookViewer(cfg.NotebookViewerURL, cfg.DefaultBranch),
		}
		if cfg.Highlight {
			modalOpts = append(modalOpts, viewer.WithHighlighter(viewer.NewChromaHighlighter(cfg.HighlightStyle)))
		}

		srv := server.New(server.Config{
			Port:           cfg.Port,
			AllowAll:       serveDev,
			Mounts:         mounts,
			GatewayOptions: gatewayOptions(cfg, log),
			ModalOptions:   modalOpts,
		}, log)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		url := fmt.Sprintf("http://localhost:%d", cfg.Port)
		if cfg.OpenBrowser || serveOpen {
			go openBrowser(url)
		}

		fmt.Fprintf(os.Stderr, "repobrowse %s serving %d repositories at %s\n", Version, len(mounts), url)
		fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop.")

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "Open the page in the default browser")
	serveCmd.Flags().StringSliceVar(&serveRepos, "repo", nil, "Repository to mount as OWNER/REPO (repeatable)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "Allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}
