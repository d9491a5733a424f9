package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/signadot/viewd/config"
	"github.com/signadot/viewd/encode"
	"github.com/signadot/viewd/libdiff"
	"github.com/signadot/viewd/store"
	"github.com/signadot/viewd/system/viewd/api"
	"github.com/signadot/viewd/view"
)

const maxBodySize = 4 << 20

// lockView serializes compositions of one view so that diffs and
// broadcast events follow the order of writes.
func (s *Server) lockView(name string) func() {
	v, _ := s.locks.LoadOrStore(name, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func readDescription(w http.ResponseWriter, r *http.Request) (any, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	return encode.DecodeReader(body, encode.FormatOfContentType(r.Header.Get("Content-Type")))
}

// handlePutView composes the view named in the path from the description
// in the body.
func (s *Server) handlePutView(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := view.CheckName(name); err != nil {
		writeError(w, http.StatusBadRequest, api.NewError(api.ErrCodeInvalidName, err.Error()))
		return
	}
	raw, err := readDescription(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, api.NewError(api.ErrCodeBadRequest, err.Error()))
		return
	}
	c := s.Spec.Composer
	defer s.lockView(name)()

	var prev any
	if old, err := c.Get(r.Context(), name); err == nil {
		prev = old
	}
	run := view.NewRun()
	v, err := c.Create(view.WithRun(r.Context(), run), name, raw)
	if err != nil {
		status, e := composeError(err)
		if status == http.StatusInternalServerError {
			s.Spec.Log.Error("failed to compose view", "view", name, "run", run, "error", err)
		}
		writeError(w, status, e)
		return
	}
	diff, err := libdiff.Values(prev, v, nil)
	if err != nil {
		s.Spec.Log.Warn("failed to diff view", "view", name, "run", run, "error", err)
	}
	s.Hub.Broadcast(&api.ViewEvent{Name: name, Run: run, View: v})
	writeJSON(w, http.StatusOK, &api.CreateResponse{Name: name, View: v, Diff: diff})
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	v, err := s.Spec.Composer.Get(r.Context(), name)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, &api.GetResponse{Name: name, View: v})
	case errors.Is(err, view.ErrBadName):
		writeError(w, http.StatusBadRequest, api.NewError(api.ErrCodeInvalidName, err.Error()))
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, api.NewError(api.ErrCodeNotFound, fmt.Sprintf("view %q not found", name)))
	default:
		s.Spec.Log.Error("failed to read view", "view", name, "error", err)
		writeError(w, http.StatusInternalServerError, api.NewError(api.ErrCodeInternal, err.Error()))
	}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	raw, err := readDescription(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, api.NewError(api.ErrCodeBadRequest, err.Error()))
		return
	}
	d, err := view.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusOK, &api.ValidateResponse{Violations: violations(err)})
		return
	}
	writeJSON(w, http.StatusOK, &api.ValidateResponse{Valid: true, Queries: len(d)})
}

func (s *Server) watchBuffer() int {
	if cfg := s.Spec.Config; cfg != nil && cfg.Watch != nil && cfg.Watch.BufferSize > 0 {
		return cfg.Watch.BufferSize
	}
	return config.DefaultBufferSize
}
