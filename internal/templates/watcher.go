package templates

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/declutterlabs/declutterd/internal/statestore"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// debounceWindow coalesces the burst of write events one save produces.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads the template store when the persisted user-template
// document changes on disk outside this process (hand edits, file sync).
type Watcher struct {
	store   *Store
	state   *statestore.Store
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	stop    chan struct{}

	// reloaded receives a signal after each reload, for consumers that
	// want to refresh derived state.
	reloaded chan struct{}
}

// NewWatcher creates a watcher for the store's backing document.
func NewWatcher(store *Store, state *statestore.Store, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	return &Watcher{
		store:    store,
		state:    state,
		watcher:  fw,
		logger:   logger,
		stop:     make(chan struct{}),
		reloaded: make(chan struct{}, 1),
	}, nil
}

// Start begins watching. The state directory is watched rather than the
// file itself: atomic saves replace the file by rename, which would
// otherwise detach the watch.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.state.Dir()); err != nil {
		return fmt.Errorf("watching state directory: %w", err)
	}
	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases its resources.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
		_ = w.watcher.Close()
	}
}

// Reloaded signals after each reload triggered by a file change.
func (w *Watcher) Reloaded() <-chan struct{} {
	return w.reloaded
}

func (w *Watcher) processEvents(ctx context.Context) {
	target := filepath.Base(w.state.Path(userTemplatesDoc))

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			w.logger.Info("user templates changed on disk, reloading")
			w.store.Reload()
			select {
			case w.reloaded <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("template watcher error", zap.Error(err))
		}
	}
}
