package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/derive/compiler/load"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [patterns]",
		Short: "Regenerate units whenever a Go source file changes",
		Long: `Watch runs generate once, then again every time a Go source file below the
working directory is created, changed or removed. Bursts of changes are
coalesced. Generated files are ignored. Stop it with Ctrl-C.`,
		RunE: runWatch,
	}
	addGenerateFlags(cmd.Flags())
	cmd.Flags().Duration("debounce", 300*time.Millisecond, "quiet period before regenerating")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	root, err := os.Getwd()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newWatcher(root, debounce, s.logger)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx, func(ctx context.Context) {
		logger := s.logger.With(zap.String("run", uuid.NewString()))
		logger.Debug("generation started")
		report, err := generateOnce(ctx, cmd, s, logger)
		switch {
		case err == nil:
			logger.Debug("generation done", zap.Int("units", len(report.Units)))
		case load.IsLoadError(err):
			logger.Warn("packages do not load, waiting for changes", zap.Error(err))
		case !errors.Is(err, context.Canceled):
			logger.Error("generation failed", zap.Error(err))
		}
	})
}

// watcher runs a cycle once, then again after every burst of Go source
// changes below a root directory.
type watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger
}

func newWatcher(root string, debounce time.Duration, logger *zap.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{fs: fw, debounce: debounce, logger: logger}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and every directory below it, except hidden ones,
// vendor and testdata.
func (w *watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		w.logger.Debug("watching", zap.String("dir", path))
		return w.fs.Add(path)
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata"
}

// relevant reports whether an event may change the generated units.
func relevant(ev fsnotify.Event) bool {
	if !strings.HasSuffix(ev.Name, ".go") || strings.HasSuffix(ev.Name, "_gen.go") {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// Run calls cycle immediately and after each burst of relevant events,
// until ctx is done.
func (w *watcher) Run(ctx context.Context, cycle func(context.Context)) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn("cannot watch directory", zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}
			if relevant(ev) {
				w.logger.Debug("change detected", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			cycle(ctx)
		}
	}
}

// Close stops watching.
func (w *watcher) Close() error {
	return w.fs.Close()
}
