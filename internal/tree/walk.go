package tree

import (
	"context"
	"errors"
	"io/fs"

	"github.com/ziadkadry99/repo-browser/internal/gateway"
)

// WalkFunc is called for every arranged entry. Returning fs.SkipDir for a
// directory skips its contents; any other error stops the walk.
type WalkFunc func(e gateway.Entry, depth int) error

// Walk visits the repository below root depth-first in display order.
// maxDepth limits how many levels are listed; zero or less means no limit.
func Walk(ctx context.Context, lister Lister, coord gateway.Coordinate, root string, maxDepth int, fn WalkFunc) error {
	return walk(ctx, lister, coord, root, 0, maxDepth, fn)
}

func walk(ctx context.Context, lister Lister, coord gateway.Coordinate, dir string, depth, maxDepth int, fn WalkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := lister.FetchContents(ctx, coord, dir)
	if err != nil {
		return err
	}
	for _, e := range Arrange(entries) {
		err := fn(e, depth)
		if errors.Is(err, fs.SkipDir) {
			continue
		}
		if err != nil {
			return err
		}
		if e.IsDir() && (maxDepth <= 0 || depth+1 < maxDepth) {
			if err := walk(ctx, lister, coord, e.Path, depth+1, maxDepth, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
