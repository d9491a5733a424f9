package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/signadot/viewd/record"
	"github.com/signadot/viewd/store/memstore"
	"github.com/signadot/viewd/system/viewd/api"
	"github.com/signadot/viewd/view"
)

const chakaYAML = `
- '@': heros
  ':': [firstname, lastname, born]
  '?':
  - where: {born: 1787}
- '@': countries
  '~': country
  '?':
  - where: {code: {$: 0, ':': countryCode}}
`

var worldDump = map[string]any{
	"heros": []any{
		map[string]any{"firstname": "George", "lastname": "Washington", "born": 1732, "countryCode": "us"},
		map[string]any{"firstname": "Chaka", "lastname": "Zulu", "born": 1787, "countryCode": "sa"},
	},
	"countries": []any{
		map[string]any{"code": "us", "name": "United States"},
		map[string]any{"code": "sa", "name": "South Africa"},
	},
}

var chaka = record.List(record.MustNormalize([]any{
	map[string]any{
		"firstname": "Chaka",
		"lastname":  "Zulu",
		"born":      1787,
		"country":   map[string]any{"code": "sa", "name": "South Africa"},
	},
}))

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	st := memstore.New()
	if err := st.Import(worldDump); err != nil {
		t.Fatal(err)
	}
	srv := New(&Spec{
		Composer: &view.Composer{Store: st},
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(srv.Hub.Close)
	return srv, ts
}

func do(t *testing.T, method, url, contentType, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("bad response: %v", err)
		}
	}
	return resp.StatusCode
}

func TestPutView(t *testing.T) {
	_, ts := newTestServer(t)
	var resp api.CreateResponse
	if code := do(t, http.MethodPut, ts.URL+"/views/chaka", "application/yaml", chakaYAML, &resp); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if diff := cmp.Diff(chaka, resp.View); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(resp.Diff, "+[") {
		t.Errorf("expected an all insert diff, got %q", resp.Diff)
	}

	resp = api.CreateResponse{}
	do(t, http.MethodPut, ts.URL+"/views/chaka", "application/yaml", chakaYAML, &resp)
	if resp.Diff != "" {
		t.Errorf("expected no diff on recomposition, got %q", resp.Diff)
	}

	var got api.GetResponse
	if code := do(t, http.MethodGet, ts.URL+"/views/chaka", "", "", &got); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if diff := cmp.Diff(chaka, got.View); diff != "" {
		t.Errorf("get (-want +got):\n%s", diff)
	}
}

func TestPutViewJSON(t *testing.T) {
	_, ts := newTestServer(t)
	body := `[{"@": "heros", ":": ["lastname"], "?": [{"where": {"born": 1732}}]}]`
	var resp api.CreateResponse
	if code := do(t, http.MethodPut, ts.URL+"/views/george", "application/json", body, &resp); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	want := []record.Record{{"lastname": "Washington"}}
	if diff := cmp.Diff(want, resp.View); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestPutViewErrors(t *testing.T) {
	_, ts := newTestServer(t)
	for _, tt := range []struct {
		name, body, ct string
		status         int
		code           string
		violations     int
	}{
		{"invalid", `[{"~": 1}, {"@": "x"}, 3]`, "application/json", http.StatusBadRequest, api.ErrCodeInvalidDescription, 3},
		{"not an array", `{"@": "x"}`, "application/json", http.StatusBadRequest, api.ErrCodeInvalidDescription, 1},
		{"unknown op", `[{"@": "heros", "?": [{"groupBy": {}}]}]`, "application/json", http.StatusUnprocessableEntity, api.ErrCodeUnknownOp, 0},
		{"bad params", `[{"@": "heros", "?": [{"first": {"n": -1}}]}]`, "application/json", http.StatusUnprocessableEntity, api.ErrCodeBadParams, 0},
		{"bad body", `[{`, "application/json", http.StatusBadRequest, api.ErrCodeBadRequest, 0},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var e api.Error
			code := do(t, http.MethodPut, ts.URL+"/views/v", tt.ct, tt.body, &e)
			if code != tt.status {
				t.Errorf("status %d, want %d", code, tt.status)
			}
			if e.Code != tt.code {
				t.Errorf("code %q, want %q", e.Code, tt.code)
			}
			if len(e.Violations) != tt.violations {
				t.Errorf("violations %v, want %d", e.Violations, tt.violations)
			}
		})
	}
	var e api.Error
	if code := do(t, http.MethodGet, ts.URL+"/views/v", "", "", &e); code != http.StatusNotFound || e.Code != api.ErrCodeNotFound {
		t.Errorf("failed composition left a view: %d %v", code, e)
	}
}

func TestValidate(t *testing.T) {
	_, ts := newTestServer(t)
	var resp api.ValidateResponse
	if code := do(t, http.MethodPost, ts.URL+"/validate", "application/yaml", chakaYAML, &resp); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if !resp.Valid || resp.Queries != 2 {
		t.Errorf("unexpected %+v", resp)
	}

	resp = api.ValidateResponse{}
	do(t, http.MethodPost, ts.URL+"/validate", "application/json", `[{"@": 1}, {}]`, &resp)
	want := []api.Violation{
		{Index: 0, Message: view.ErrPathType.Error()},
		{Index: 1, Message: view.ErrMissingPath.Error()},
	}
	if resp.Valid {
		t.Error("expected invalid")
	}
	if diff := cmp.Diff(want, resp.Violations); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWatchView(t *testing.T) {
	srv, ts := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/views/chaka/watch"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return srv.Hub.WatcherCount() == 1 })

	var resp api.CreateResponse
	do(t, http.MethodPut, ts.URL+"/views/chaka", "application/yaml", chakaYAML, &resp)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev api.ViewEvent
	// the current content may come first if the view was composed
	// before the watch looked it up.
	for ev.Run == "" {
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatal(err)
		}
	}
	if ev.Name != "chaka" {
		t.Errorf("unexpected event %+v", ev)
	}
	if diff := cmp.Diff(chaka, ev.View); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	conn.Close()
	waitFor(t, func() bool { return srv.Hub.WatcherCount() == 0 })
}

func TestWatchViewCurrent(t *testing.T) {
	_, ts := newTestServer(t)
	do(t, http.MethodPut, ts.URL+"/views/chaka", "application/yaml", chakaYAML, nil)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/views/chaka/watch"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev api.ViewEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	if ev.Run != "" {
		t.Errorf("current content has a run id: %q", ev.Run)
	}
	if diff := cmp.Diff(chaka, ev.View); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestWatchHubSlowConsumer(t *testing.T) {
	hub := NewWatchHubWithTimeout(10 * time.Millisecond)
	slow := NewWatcher("v", 0)
	fast := NewWatcher("v", 1)
	other := NewWatcher("w", 1)
	hub.Watch(slow)
	hub.Watch(fast)
	hub.Watch(other)
	if hub.WatcherCount() != 3 || hub.ViewCount() != 2 {
		t.Fatalf("counts %d %d", hub.WatcherCount(), hub.ViewCount())
	}
	hub.Broadcast(&api.ViewEvent{Name: "v"})
	select {
	case <-slow.Failed:
	default:
		t.Error("slow watcher not failed")
	}
	select {
	case <-fast.Events:
	default:
		t.Error("fast watcher got nothing")
	}
	if len(other.Events) != 0 {
		t.Error("event sent to the watcher of another view")
	}
	if hub.WatcherCount() != 2 {
		t.Errorf("slow watcher not removed: %d", hub.WatcherCount())
	}

	hub.Close()
	for _, w := range []*Watcher{fast, other} {
		select {
		case <-w.Failed:
		default:
			t.Error("watcher survived Close")
		}
	}
	late := NewWatcher("v", 1)
	hub.Watch(late)
	select {
	case <-late.Failed:
	default:
		t.Error("watch on closed hub did not fail")
	}
}
