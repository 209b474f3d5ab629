package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 100 * time.Millisecond

// Source holds the current dataset and reloads it when the file changes.
// An invalid file is logged and the previous dataset is kept.
type Source struct {
	path    string
	current atomic.Pointer[Dataset]
	logger  *zap.Logger

	mu       sync.Mutex
	onReload []func(*Dataset)
}

// NewSource loads path and returns a source serving it
func NewSource(path string, logger *zap.Logger) (*Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ds, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	s := &Source{path: path, logger: logger}
	s.current.Store(ds)
	logger.Info("Dataset loaded", zap.String("path", path), zap.Stringer("dataset", ds))
	return s, nil
}

// Current returns the dataset in use
func (s *Source) Current() *Dataset { return s.current.Load() }

// OnReload registers fn to run after every successful reload
func (s *Source) OnReload(fn func(*Dataset)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = append(s.onReload, fn)
}

// Reload reads the file again. On error the current dataset is kept.
func (s *Source) Reload() error {
	ds, err := Load(s.path)
	if err != nil {
		s.logger.Error("Invalid dataset, keeping current", zap.String("path", s.path), zap.Error(err))
		return err
	}
	s.current.Store(ds)

	s.mu.Lock()
	handlers := make([]func(*Dataset), len(s.onReload))
	copy(handlers, s.onReload)
	s.mu.Unlock()
	for _, fn := range handlers {
		fn(ds)
	}

	s.logger.Info("Dataset reloaded", zap.String("path", s.path), zap.Stringer("dataset", ds))
	return nil
}

// Watch reloads the dataset whenever the file is written or replaced,
// until ctx is cancelled
func (s *Source) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// watch the directory too so atomic saves (rename over) are seen
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch dataset directory: %w", err)
	}
	s.logger.Info("Dataset watcher started", zap.String("path", s.path))

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	name := filepath.Base(s.path)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Dataset watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() { _ = s.Reload() })

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("Dataset watcher error", zap.Error(err))
		}
	}
}
