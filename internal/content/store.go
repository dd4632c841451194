package content

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period Watch waits for before reloading.
const DefaultDebounce = 500 * time.Millisecond

// ReloadHook is notified after every reload attempt triggered by Watch.
type ReloadHook func(stats Stats, err error)

// Store holds the current Library and replaces it on Reload.
type Store struct {
	dir    string
	logger *zap.Logger

	mu     sync.RWMutex
	lib    *Library
	onLoad ReloadHook
}

// NewStore loads the library at dir.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	lib, err := Load(dir)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger, lib: lib}, nil
}

// NewStaticStore wraps an already loaded library. Reload re-reads lib.Dir().
func NewStaticStore(lib *Library) *Store {
	return &Store{dir: lib.Dir(), logger: zap.NewNop(), lib: lib}
}

// Current returns the library in effect. The result must be treated as read-only.
func (s *Store) Current() *Library {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lib
}

// SetReloadHook registers a hook for reloads triggered by Watch.
func (s *Store) SetReloadHook(hook ReloadHook) {
	s.mu.Lock()
	s.onLoad = hook
	s.mu.Unlock()
}

// Reload re-reads the content tree. On error the previous library stays in effect.
func (s *Store) Reload() error {
	lib, err := Load(s.dir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lib = lib
	s.mu.Unlock()
	return nil
}

// Watch reloads the library whenever files below the content directory change.
// It blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, s.dir); err != nil {
		return err
	}
	s.logger.Info("watching content directory", zap.String("dir", s.dir))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						s.logger.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("content watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			s.reloadFromWatch()
		}
	}
}

func (s *Store) reloadFromWatch() {
	err := s.Reload()
	lib := s.Current()

	s.mu.RLock()
	hook := s.onLoad
	s.mu.RUnlock()

	if err != nil {
		s.logger.Error("content reload failed, keeping previous library", zap.Error(err))
	} else {
		stats := lib.Stats()
		s.logger.Info("content reloaded",
			zap.Int("languages", stats.Languages),
			zap.Int("modules", stats.Modules),
			zap.Int("units", stats.Units),
			zap.Int("exercises", stats.Exercises))
	}
	if hook != nil {
		hook(lib.Stats(), err)
	}
}

func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipName(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
