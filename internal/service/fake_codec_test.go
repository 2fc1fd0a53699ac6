package service

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/svdgoor/Tools/internal/models"
)

var errCorrupt = errors.New("cannot identify image file")

// fakeCodec records concurrency and writes placeholder sibling files.
type fakeCodec struct {
	delay    time.Duration
	failOpen map[string]bool // by base name
	panicOn  map[string]bool // by base name
	failSave map[models.Format]bool

	active    atomic.Int32
	maxActive atomic.Int32
	opens     atomic.Int32

	mu    sync.Mutex
	saved []string
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{
		failOpen: map[string]bool{},
		panicOn:  map[string]bool{},
		failSave: map[models.Format]bool{},
	}
}

func (c *fakeCodec) enter() func() {
	n := c.active.Add(1)
	for {
		peak := c.maxActive.Load()
		if n <= peak || c.maxActive.CompareAndSwap(peak, n) {
			break
		}
	}
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return func() { c.active.Add(-1) }
}

func (c *fakeCodec) Open(path string) (image.Image, error) {
	defer c.enter()()
	c.opens.Add(1)
	name := filepath.Base(path)
	if c.panicOn[name] {
		panic("decoder blew up")
	}
	if c.failOpen[name] {
		return nil, errCorrupt
	}
	return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (c *fakeCodec) Convert(img image.Image) (image.Image, error) {
	return img, nil
}

func (c *fakeCodec) Save(img image.Image, path string, f models.Format) error {
	defer c.enter()()
	if c.failSave[f] {
		return errors.New("disk full")
	}
	if err := os.WriteFile(path, []byte(f.Encoder()), 0o644); err != nil {
		return err
	}
	c.mu.Lock()
	c.saved = append(c.saved, path)
	c.mu.Unlock()
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// touch creates empty files relative to dir.
func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
