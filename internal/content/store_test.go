package content

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func copyTree(t *testing.T, src, dst string) {
	t.Helper()
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	require.NoError(t, err)
}

func TestStore_Reload(t *testing.T) {
	dir := t.TempDir()
	copyTree(t, testContentDir, dir)

	store, err := NewStore(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	before := store.Current()

	writeFile(t, filepath.Join(dir, "fr", "base", ModuleFile), `{"title": "Bases"}`)
	require.NoError(t, store.Reload())

	assert.True(t, store.Current().HasLanguage("fr"))
	assert.False(t, before.HasLanguage("fr"), "previously returned library is unchanged")
}

func TestStore_Reload_KeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	copyTree(t, testContentDir, dir)

	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	writeFile(t, filepath.Join(dir, "es", "basics", ModuleFile), `{broken`)
	assert.Error(t, store.Reload())

	module, err := store.Current().Module("es", "basics")
	require.NoError(t, err)
	assert.Equal(t, "Basics", module.Title)
}

func TestNewStaticStore(t *testing.T) {
	lib := loadTestLibrary(t)

	store := NewStaticStore(lib)

	assert.Same(t, lib, store.Current())
}

func TestStore_Watch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	copyTree(t, testContentDir, dir)

	store, err := NewStore(dir, zaptest.NewLogger(t))
	require.NoError(t, err)

	var mu sync.Mutex
	var reloads []Stats
	store.SetReloadHook(func(stats Stats, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			reloads = append(reloads, stats)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, 20*time.Millisecond)
	}()

	// Give the watcher time to register the tree
	time.Sleep(100 * time.Millisecond)

	writeFile(t, filepath.Join(dir, "es", "basics", ModuleFile), `{"title": "Basics v2", "order": 1}`)

	require.Eventually(t, func() bool {
		module, err := store.Current().Module("es", "basics")
		return err == nil && module.Title == "Basics v2"
	}, 5*time.Second, 20*time.Millisecond)

	// New directories are picked up as well
	writeFile(t, filepath.Join(dir, "it", "base", ModuleFile), `{"title": "Base"}`)
	require.Eventually(t, func() bool {
		return store.Current().HasLanguage("it")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, reloads)
}
