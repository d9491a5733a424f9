package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/signadot/viewd/system/viewd/api"
	"github.com/signadot/viewd/view"
)

const (
	writeTimeout = 10 * time.Second
	pingPeriod   = 30 * time.Second
)

// handleWatchView streams the view named in the path over a websocket:
// its current content if any, then every new composition.  A watcher
// which falls behind, or outlives the server, is closed with CloseTryAgainLater.
func (s *Server) handleWatchView(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := view.CheckName(name); err != nil {
		writeError(w, http.StatusBadRequest, api.NewError(api.ErrCodeInvalidName, err.Error()))
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Spec.Log.Debug("watch upgrade failed", "view", name, "error", err)
		return
	}
	defer conn.Close()

	watcher := NewWatcher(name, s.watchBuffer())
	s.Hub.Watch(watcher)
	defer s.Hub.Unwatch(watcher)
	log := s.Spec.Log.With("view", name, "remote", r.RemoteAddr)
	log.Debug("watch started")

	if v, err := s.Spec.Composer.Get(r.Context(), name); err == nil {
		if err := writeEvent(conn, &api.ViewEvent{Name: name, View: v}); err != nil {
			return
		}
	}

	// the client sends nothing; reading detects it going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for {
		select {
		case ev := <-watcher.Events:
			if err := writeEvent(conn, ev); err != nil {
				log.Debug("watch write failed", "error", err)
				return
			}
		case <-t.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-watcher.Failed:
			log.Warn("watch failed")
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "watch failed"))
			return
		case <-gone:
			log.Debug("watch ended")
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, ev *api.ViewEvent) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(ev)
}
