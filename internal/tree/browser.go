// Package tree keeps the lazily loaded file tree of one repository and
// projects it into rows and HTML.
package tree

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ziadkadry99/repo-browser/internal/gateway"
	"github.com/ziadkadry99/repo-browser/internal/viewer"
)

// ErrUnknownPath is returned for paths that have not been rendered.
var ErrUnknownPath = errors.New("path is not in the tree")

// Lister fetches directory listings.
type Lister interface {
	FetchContents(ctx context.Context, coord gateway.Coordinate, path string) ([]gateway.Entry, error)
}

// FileViewer previews a selected file.
type FileViewer interface {
	Show(ctx context.Context, coord gateway.Coordinate, entry gateway.Entry) viewer.State
}

// Config describes one browser mounted in a host container.
type Config struct {
	Container  string
	Coordinate gateway.Coordinate
	RepoURL    string
	Lister     Lister
	Viewer     FileViewer
	Logger     *zerolog.Logger
}

// Browser is the file tree of one repository. It owns its node state;
// the viewer is shared with other browsers in the same page.
type Browser struct {
	container string
	coord     gateway.Coordinate
	repoURL   string
	lister    Lister
	viewer    FileViewer
	state     *StateStore
	log       zerolog.Logger
	loads     singleflight.Group

	mu          sync.RWMutex
	initialized bool
	root        []gateway.Entry
	rootErr     error
	children    map[string][]gateway.Entry
	entries     map[string]gateway.Entry
}

// NewBrowser creates an uninitialized browser.
func NewBrowser(cfg Config) *Browser {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Browser{
		container: cfg.Container,
		coord:     cfg.Coordinate,
		repoURL:   cfg.RepoURL,
		lister:    cfg.Lister,
		viewer:    cfg.Viewer,
		state:     NewStateStore(),
		log:       log.With().Str("repo", cfg.Coordinate.String()).Logger(),
		children:  make(map[string][]gateway.Entry),
		entries:   make(map[string]gateway.Entry),
	}
}

// Container returns the id of the host container.
func (b *Browser) Container() string { return b.container }

// Coordinate returns the repository shown by the browser.
func (b *Browser) Coordinate() gateway.Coordinate { return b.coord }

// State returns the node state store.
func (b *Browser) State() *StateStore { return b.state }

// Init loads the root listing once. A failure is permanent for this
// browser: later calls return the same error without fetching again.
func (b *Browser) Init(ctx context.Context) error {
	b.mu.RLock()
	done, err := b.initialized, b.rootErr
	b.mu.RUnlock()
	if done {
		return err
	}

	_, err, _ = b.loads.Do("\x00root", func() (any, error) {
		b.mu.RLock()
		done, err := b.initialized, b.rootErr
		b.mu.RUnlock()
		if done {
			return nil, err
		}

		// Shared by every waiting caller, so no single request may cancel it.
		entries, err := b.lister.FetchContents(context.WithoutCancel(ctx), b.coord, "")

		b.mu.Lock()
		defer b.mu.Unlock()
		b.initialized = true
		if err != nil {
			b.rootErr = err
			b.log.Warn().Err(err).Msg("root listing failed")
			return nil, err
		}
		b.root = b.registerLocked(entries)
		return nil, nil
	})
	return err
}

func (b *Browser) registerLocked(entries []gateway.Entry) []gateway.Entry {
	arranged := Arrange(entries)
	for _, e := range arranged {
		b.entries[e.Path] = e
	}
	return arranged
}

// Entry looks up a rendered entry by path.
func (b *Browser) Entry(path string) (gateway.Entry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entries[path]
	return e, ok
}

// Click handles a click on the row for path: directories expand or
// toggle, files open in the viewer.
func (b *Browser) Click(ctx context.Context, path string) error {
	e, ok := b.Entry(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}
	if e.IsDir() {
		return b.Toggle(ctx, path)
	}
	_, err := b.Open(ctx, path)
	return err
}

// Toggle expands or collapses a directory. The first expansion fetches the
// listing; concurrent first clicks share that fetch. A failed fetch leaves
// the node unloaded so the next click retries. Once loaded, toggling
// never touches the network.
func (b *Browser) Toggle(ctx context.Context, path string) error {
	e, ok := b.Entry(path)
	if !ok || !e.IsDir() {
		return fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}

	st := b.state.Update(path, func(n *NodeState) {
		if n.Loaded {
			n.Expanded = !n.Expanded
			return
		}
		n.Expanded = true
		n.Loading = true
		n.Err = nil
	})
	if st.Loaded {
		return nil
	}

	_, err, _ := b.loads.Do(path, func() (any, error) {
		if b.state.Get(path).Loaded {
			return nil, nil
		}
		entries, err := b.lister.FetchContents(context.WithoutCancel(ctx), b.coord, path)
		if err != nil {
			b.state.Update(path, func(n *NodeState) {
				n.Loading = false
				n.Err = err
			})
			b.log.Debug().Err(err).Str("path", path).Msg("directory listing failed")
			return nil, err
		}

		b.mu.Lock()
		b.children[path] = b.registerLocked(entries)
		b.mu.Unlock()

		b.state.Update(path, func(n *NodeState) {
			n.Loaded = true
			n.Loading = false
		})
		return nil, nil
	})
	return err
}

// Open shows the file at path in the viewer.
func (b *Browser) Open(ctx context.Context, path string) (viewer.State, error) {
	e, ok := b.Entry(path)
	if !ok || e.IsDir() {
		return viewer.State{}, fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}
	return b.viewer.Show(ctx, b.coord, e), nil
}
