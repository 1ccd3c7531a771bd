package style

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a stylesheet file into a Resolver whenever the file changes.
type Watcher struct {
	path     string
	resolver *Resolver
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(*Stylesheet)

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewWatcher creates a Watcher for path. The parent directory is watched so editors that replace
// the file on save are still seen.
//
// Parameters:
//   - path: the stylesheet file
//   - resolver: receives every successfully parsed stylesheet
//   - debounce: quiet period after the last event before reloading
//
// Returns:
//   - *Watcher: the watcher, not yet started
//   - error: if the platform watcher cannot be created
func NewWatcher(path string, resolver *Resolver, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating stylesheet watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	return &Watcher{
		path:     filepath.Clean(path),
		resolver: resolver,
		watcher:  fw,
		debounce: debounce,
	}, nil
}

// OnReload registers fn to run after each successful reload. Must be called before Start.
func (w *Watcher) OnReload(fn func(*Stylesheet)) {
	w.onReload = fn
}

// Start begins watching until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", w.path, err)
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.processEvents(ctx)
	return nil
}

// Close stops watching and waits for the event goroutine to exit.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("stylesheet watcher: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	sheet, err := LoadStylesheet(w.path)
	if err != nil {
		log.Printf("stylesheet reload: %v", err)
		return
	}
	w.resolver.SetStylesheet(sheet)
	log.Printf("stylesheet reloaded from %s", w.path)
	if w.onReload != nil {
		w.onReload(sheet)
	}
}
