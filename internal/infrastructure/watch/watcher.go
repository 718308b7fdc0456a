// Package watch discovers report files dropped into a directory tree.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/akarpovich/health-analytics/internal/infrastructure/extractor"
)

type Config struct {
	Root        string
	AllowedExts map[string]struct{} // lowercase, without dot; nil means every supported report type
	InitialScan bool                // emit files already present under the root
	Debounce    time.Duration       // coalesce rapid create/write bursts; 0 dispatches immediately
	RatePerSec  float64             // pipeline pacing; 0 disables the limit
}

// Handler processes one discovered file. Errors are the handler's concern;
// discovery keeps going.
type Handler func(ctx context.Context, path string)

type Watcher struct {
	cfg     Config
	logger  *slog.Logger
	limiter *rate.Limiter
}

func New(cfg Config, logger *slog.Logger) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, errors.New("watch: no root directory")
	}
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = extractor.SupportedExtensions()
	}
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	return &Watcher{cfg: cfg, logger: logger, limiter: rate.NewLimiter(limit, 1)}, nil
}

// Run blocks until ctx is canceled, invoking handle for every report file
// discovered under the root. Only setup failures return an error.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	var initial []string
	if err := w.addTree(fsw, w.cfg.Root, func(path string) {
		if w.cfg.InitialScan {
			initial = append(initial, path)
		}
	}); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Root, err)
	}

	for _, path := range initial {
		if ctx.Err() != nil {
			return nil
		}
		w.dispatch(ctx, handle, path)
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	// scheduleFlush arms the debounce timer; false means dispatch now.
	scheduleFlush := func() bool {
		if w.cfg.Debounce <= 0 {
			return false
		}
		if timer == nil {
			timer = time.NewTimer(w.cfg.Debounce)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.cfg.Debounce)
		}
		timerC = timer.C
		return true
	}

	flush := func() {
		for path := range pending {
			delete(pending, path)
			if ctx.Err() != nil {
				return
			}
			w.dispatch(ctx, handle, path)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if e.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(e.Name); statErr == nil && info.IsDir() {
					// Watch the new subtree and pick up files that landed
					// before the watch was in place.
					if err := w.addTree(fsw, e.Name, func(path string) { pending[path] = struct{}{} }); err != nil {
						w.logger.Warn("failed to watch new directory",
							slog.String("path", e.Name), slog.Any("error", err))
					}
					if len(pending) > 0 && !scheduleFlush() {
						flush()
					}
					continue
				}
			}
			if w.allowed(e.Name) && e.Op.Has(fsnotify.Create|fsnotify.Write|fsnotify.Rename) {
				pending[e.Name] = struct{}{}
				if !scheduleFlush() {
					flush()
				}
			}
		case <-timerC:
			timerC = nil
			flush()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string, onFile func(string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		if w.allowed(path) {
			onFile(path)
		}
		return nil
	})
}

func (w *Watcher) dispatch(ctx context.Context, handle Handler, path string) {
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	handle(ctx, path)
}

func (w *Watcher) allowed(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := w.cfg.AllowedExts[ext]
	return ok
}
