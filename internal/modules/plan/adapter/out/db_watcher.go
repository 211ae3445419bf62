package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	planout "planote/internal/modules/plan/port/out"
)

const defaultWatchDelay = 100 * time.Millisecond

// DBWatcher notices writes made to the database file by other processes (the
// CLI while the TUI runs, for instance) and invalidates every live query.
type DBWatcher struct {
	path   string
	notify planout.Notifier
	log    hclog.Logger
	delay  time.Duration
}

func NewDBWatcher(dbPath string, notify planout.Notifier, log hclog.Logger) *DBWatcher {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &DBWatcher{path: filepath.Clean(dbPath), notify: notify, log: log, delay: defaultWatchDelay}
}

// WithDelay overrides the coalescing window.
func (w *DBWatcher) WithDelay(d time.Duration) *DBWatcher {
	if d > 0 {
		w.delay = d
	}
	return w
}

// Watch blocks until ctx is done. The database directory is watched rather
// than the file so that journal and WAL siblings are seen as well.
func (w *DBWatcher) Watch(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("watch db: ensure dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch db: create watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			w.log.Warn("watcher close", "error", err)
		}
	}()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch db: %s: %w", dir, err)
	}

	throttle := newThrottle(w.delay, func() { w.notify.Publish() })
	defer throttle.Stop()

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Unclassifiable; a full refresh keeps readers in sync.
			w.log.Debug("watcher error", "error", err)
			throttle.Poke()
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(evt.Name), base) {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
				continue
			}
			w.log.Trace("db changed", "file", evt.Name, "op", evt.Op.String())
			throttle.Poke()
		}
	}
}

// throttle collapses a burst of pokes into one call of fire, delay after the
// first poke of the burst.
type throttle struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	fire  func()
}

func newThrottle(delay time.Duration, fire func()) *throttle {
	return &throttle{delay: delay, fire: fire}
}

func (t *throttle) Poke() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()
		t.fire()
	})
}

func (t *throttle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
