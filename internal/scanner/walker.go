package scanner

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gobwas/glob"

	"github.com/gamehoard/gamehoard/internal/events"
	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/storage"
)

// WalkerOptions controls traversal behavior.
type WalkerOptions struct {
	// MaxDepth bounds descent; directories beyond it are not entered.
	MaxDepth int

	// IncludeHidden visits dot-prefixed entries when true.
	IncludeHidden bool

	// ExcludePatterns skip entries whose lowercased path contains the
	// pattern, or matches it as a *-glob.
	ExcludePatterns []string

	// Parallelism processes sibling subdirectories in concurrent
	// batches of this size. Zero or one walks sequentially.
	Parallelism int
}

// VisitFunc is called once per reachable file. It must be safe for
// concurrent invocation when parallelism is enabled.
type VisitFunc func(models.FileRecord) error

// Walker traverses a storage tree through an adapter, yielding every
// reachable file. Listing failures are logged and skipped; they never
// abort the traversal.
type Walker struct {
	adapter storage.Adapter
	logger  *events.Logger
	opts    WalkerOptions

	excludes []exclude

	filesVisited int64
	dirsVisited  int64
}

type exclude struct {
	raw  string
	glob glob.Glob
}

// NewWalker creates a walker over the given adapter.
func NewWalker(adapter storage.Adapter, opts WalkerOptions, logger *events.Logger) *Walker {
	w := &Walker{
		adapter: adapter,
		logger:  logger.WithField("component", "walker"),
		opts:    opts,
	}

	for _, p := range opts.ExcludePatterns {
		p = strings.ToLower(p)
		e := exclude{raw: p}
		if strings.Contains(p, "*") {
			if g, err := glob.Compile(p); err == nil {
				e.glob = g
			}
		}
		w.excludes = append(w.excludes, e)
	}

	return w
}

// FilesVisited returns the file count of the current or last walk.
func (w *Walker) FilesVisited() int {
	return int(atomic.LoadInt64(&w.filesVisited))
}

// DirsVisited returns the directory count of the current or last walk.
func (w *Walker) DirsVisited() int {
	return int(atomic.LoadInt64(&w.dirsVisited))
}

// Walk calls visit once per reachable file under root. Counts reset at
// the start of each call.
func (w *Walker) Walk(ctx context.Context, root string, visit VisitFunc) error {
	atomic.StoreInt64(&w.filesVisited, 0)
	atomic.StoreInt64(&w.dirsVisited, 0)

	isDir, err := w.adapter.IsDirectory(ctx, root)
	if err != nil {
		return err
	}
	if !isDir {
		return &models.AdapterError{Op: "walk", Path: root, Err: models.ErrScanRootMissing}
	}

	return w.walkDir(ctx, root, 0, visit)
}

func (w *Walker) walkDir(ctx context.Context, dir string, depth int, visit VisitFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	atomic.AddInt64(&w.dirsVisited, 1)

	children, err := w.adapter.ListFiles(ctx, dir)
	if err != nil {
		// Unreadable directories are skipped, not fatal.
		w.logger.WithError(err).WithField("dir", dir).Warn("Skipping unreadable directory")
		return nil
	}

	var subdirs []string

	for _, child := range children {
		info, err := w.adapter.GetFileInfo(ctx, child)
		if err != nil {
			w.logger.WithError(err).WithField("path", child).Warn("Skipping unreadable entry")
			continue
		}

		if w.skip(info) {
			continue
		}

		if info.IsDirectory {
			if depth < w.opts.MaxDepth {
				subdirs = append(subdirs, child)
			}
			continue
		}

		atomic.AddInt64(&w.filesVisited, 1)
		if err := visit(info); err != nil {
			return err
		}
	}

	if w.opts.Parallelism > 1 {
		return w.walkBatches(ctx, subdirs, depth+1, visit)
	}

	for _, sub := range subdirs {
		if err := w.walkDir(ctx, sub, depth+1, visit); err != nil {
			return err
		}
	}

	return nil
}

// walkBatches processes sibling subdirectories in fixed-size concurrent
// batches, awaiting each batch before issuing the next.
func (w *Walker) walkBatches(ctx context.Context, subdirs []string, depth int, visit VisitFunc) error {
	for start := 0; start < len(subdirs); start += w.opts.Parallelism {
		end := start + w.opts.Parallelism
		if end > len(subdirs) {
			end = len(subdirs)
		}

		batch := subdirs[start:end]
		errs := make([]error, len(batch))

		var wg sync.WaitGroup
		for i, sub := range batch {
			wg.Add(1)
			go func(i int, sub string) {
				defer wg.Done()
				errs[i] = w.walkDir(ctx, sub, depth, visit)
			}(i, sub)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// skip applies hidden-file and exclude-pattern rules.
func (w *Walker) skip(info models.FileRecord) bool {
	if !w.opts.IncludeHidden && strings.HasPrefix(info.Name, ".") {
		return true
	}

	lowerPath := strings.ToLower(info.NormalizedPath())
	for _, e := range w.excludes {
		if e.glob != nil {
			if e.glob.Match(lowerPath) {
				return true
			}
			continue
		}
		if strings.Contains(lowerPath, e.raw) {
			return true
		}
	}

	return false
}
