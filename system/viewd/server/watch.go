package server

import (
	"sync"
	"time"

	"github.com/signadot/viewd/system/viewd/api"
)

// DefaultBroadcastTimeout is the default timeout for sending events to watchers.
// If a watcher doesn't read within this time, the watch is failed.
const DefaultBroadcastTimeout = 5 * time.Second

// WatchHub manages view watches and broadcasts new compositions to
// watchers.  It is safe for concurrent use.
type WatchHub struct {
	mu               sync.RWMutex
	watchers         map[string]map[*Watcher]struct{} // view name -> set of watchers
	broadcastTimeout time.Duration
	closed           bool
}

// Watcher represents a watch on a view.
// If the watcher can't keep up (Events channel blocks), the watch is failed
// and the Failed channel is closed.
type Watcher struct {
	Name   string
	Events chan *api.ViewEvent
	Failed chan struct{}

	failOnce sync.Once
}

// NewWatcher returns a watcher of the view called name queueing up to
// buffer events.
func NewWatcher(name string, buffer int) *Watcher {
	return &Watcher{
		Name:   name,
		Events: make(chan *api.ViewEvent, buffer),
		Failed: make(chan struct{}),
	}
}

func (w *Watcher) fail() {
	w.failOnce.Do(func() {
		close(w.Failed)
	})
}

// NewWatchHub creates a new WatchHub instance with default timeout.
func NewWatchHub() *WatchHub {
	return NewWatchHubWithTimeout(DefaultBroadcastTimeout)
}

// NewWatchHubWithTimeout creates a new WatchHub with a custom broadcast timeout.
func NewWatchHubWithTimeout(timeout time.Duration) *WatchHub {
	return &WatchHub{
		watchers:         make(map[string]map[*Watcher]struct{}),
		broadcastTimeout: timeout,
	}
}

// Watch adds a watcher.  Watching a closed hub fails the watcher at
// once.
func (h *WatchHub) Watch(w *Watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		w.fail()
		return
	}
	if h.watchers[w.Name] == nil {
		h.watchers[w.Name] = make(map[*Watcher]struct{})
	}
	h.watchers[w.Name][w] = struct{}{}
}

// Unwatch removes a watcher.
func (h *WatchHub) Unwatch(w *Watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(w)
}

func (h *WatchHub) remove(w *Watcher) {
	if ws, ok := h.watchers[w.Name]; ok {
		delete(ws, w)
		if len(ws) == 0 {
			delete(h.watchers, w.Name)
		}
	}
}

// Broadcast sends ev to the watchers of ev.Name.
//
// If a watcher's channel blocks for longer than the broadcast timeout, the
// watch is failed (Failed channel is closed) and the watcher is removed.
func (h *WatchHub) Broadcast(ev *api.ViewEvent) {
	h.mu.RLock()
	targets := make([]*Watcher, 0, len(h.watchers[ev.Name]))
	for w := range h.watchers[ev.Name] {
		targets = append(targets, w)
	}
	h.mu.RUnlock()

	var failed []*Watcher
	for _, w := range targets {
		select {
		case <-w.Failed:
			continue
		default:
		}
		select {
		case w.Events <- ev:
		case <-time.After(h.broadcastTimeout):
			w.fail()
			failed = append(failed, w)
		case <-w.Failed:
		}
	}
	if len(failed) > 0 {
		h.mu.Lock()
		for _, w := range failed {
			h.remove(w)
		}
		h.mu.Unlock()
	}
}

// Close fails and removes every watcher.  Later watches fail at once.
func (h *WatchHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, ws := range h.watchers {
		for w := range ws {
			w.fail()
		}
	}
	h.watchers = make(map[string]map[*Watcher]struct{})
}

// WatcherCount returns the total number of active watchers.
func (h *WatchHub) WatcherCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	count := 0
	for _, ws := range h.watchers {
		count += len(ws)
	}
	return count
}

// ViewCount returns the number of views being watched.
func (h *WatchHub) ViewCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}
