// Package watcher re-runs an expansion whenever one of the files it inlined
// changes on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/flatten/core/contentcache"
	"github.com/tristendillon/flatten/core/expander"
	"github.com/tristendillon/flatten/core/graph"
	"github.com/tristendillon/flatten/core/logger"
	"github.com/tristendillon/flatten/core/resolver"
)

const DefaultDebounce = 300 * time.Millisecond

// BuildFunc runs one expansion, recording include edges into g, and delivers
// its output. The returned result lists the files to watch.
type BuildFunc func(g *graph.IncludeGraph) (*expander.Result, error)

type Watcher struct {
	build    BuildFunc
	entryDir string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	content  *contentcache.ContentCache

	mu         sync.Mutex
	dirs       map[string]bool
	graph      *graph.IncludeGraph
	lastFailed bool
	timer      *time.Timer
	trigger    chan struct{}

	// OnBuild is called after every build attempt, mainly for tests.
	OnBuild func(res *expander.Result, err error)
}

// New watches the directory of entry from the start, so a first build that
// fails still sees the files that fix it.
func New(entry string, build BuildFunc, debounce time.Duration) (*Watcher, error) {
	entryDir, err := resolver.Canonical(filepath.Dir(entry))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory of %s: %w", entry, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		build:    build,
		entryDir: entryDir,
		debounce: debounce,
		watcher:  fsw,
		content:  contentcache.New(),
		dirs:     make(map[string]bool),
		graph:    graph.New(),
		trigger:  make(chan struct{}, 1),
	}, nil
}

// Run builds once and then rebuilds on change until ctx is cancelled. Build
// failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	if err := w.sync(nil); err != nil {
		return err
	}
	w.rebuild()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.trigger:
			w.rebuild()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if w.relevant(event) {
				logger.Debug("File event: %s %s", event.Op, event.Name)
				w.debounceBuild()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

// Close stops any pending rebuild and releases the fsnotify watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

// WatchedDirs returns the directories currently watched.
func (w *Watcher) WatchedDirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	dirs := make([]string, 0, len(w.dirs))
	for dir := range w.dirs {
		dirs = append(dirs, dir)
	}
	return dirs
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	w.mu.Lock()
	failed := w.lastFailed
	w.mu.Unlock()
	// after a failed build any new or changed file may fix resolution
	if failed {
		return true
	}

	name := filepath.Clean(event.Name)
	if !w.content.Tracked(name) {
		return false
	}
	changed, err := w.content.UpdateContent(name)
	if err != nil {
		logger.Warn("Failed to check %s: %v", name, err)
		return true
	}
	if changed && logger.IsVerbose() {
		w.mu.Lock()
		g := w.graph
		w.mu.Unlock()
		logger.Debug("%s changed, affects %v", name, g.Affected(name))
	}
	return changed
}

func (w *Watcher) debounceBuild() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) rebuild() {
	g := graph.New()
	res, err := w.build(g)
	if err != nil {
		// keep watching what the last good build used
		logger.Error("Build failed: %v", err)
	} else {
		logger.Info("Flattened %d files", len(res.Files))
		if serr := w.sync(res.Files); serr != nil {
			logger.Error("Failed to update watch set: %v", serr)
		}
		stats := w.content.GetStats()
		logger.Debug("Content cache: files=%d hits=%d misses=%d hit rate=%.1f%%",
			stats.TotalFiles, stats.CacheHits, stats.CacheMisses, stats.HitRate)
	}

	w.mu.Lock()
	w.lastFailed = err != nil
	if err == nil {
		w.graph = g
	}
	w.mu.Unlock()

	if w.OnBuild != nil {
		w.OnBuild(res, err)
	}
}

// sync makes the watch set equal to the entry directory plus the
// directories holding files.
func (w *Watcher) sync(files []string) error {
	if err := w.content.Reset(files); err != nil {
		return err
	}

	want := map[string]bool{w.entryDir: true}
	for _, f := range files {
		want[filepath.Dir(f)] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for dir := range w.dirs {
		if !want[dir] {
			logger.Debug("Removing watcher for: %s", dir)
			if err := w.watcher.Remove(dir); err != nil {
				logger.Debug("Failed to remove watcher for %s: %v", dir, err)
			}
			delete(w.dirs, dir)
		}
	}
	for dir := range want {
		if w.dirs[dir] {
			continue
		}
		logger.Debug("Adding watcher for: %s", dir)
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to add watcher for %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	return nil
}
