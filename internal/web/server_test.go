package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nameboard/internal/model"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, token string) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := NewServer(ServerConfig{Dir: t.TempDir(), Token: token})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func do(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func TestNewServer_RequiresDir(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, "tok")
	res := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200; got %d", res.StatusCode)
	}
}

func TestEpisodePutGet(t *testing.T) {
	_, ts := newTestServer(t, "")
	url := ts.URL + "/api/projects/p1/episodes/e1"

	if res := do(t, http.MethodGet, url, "", ""); res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404; got %d", res.StatusCode)
	}

	body := `{"title":"Pilot","structureBoard":{"groups":[{"id":"G1","panels":[{"id":"P1"}]}]},"plot":"x"}`
	res := do(t, http.MethodPut, url, "", body)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200; got %d", res.StatusCode)
	}

	res = do(t, http.MethodGet, url, "", "")
	var ep model.Episode
	if err := json.NewDecoder(res.Body).Decode(&ep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ep.ID != "e1" || ep.ProjectID != "p1" || ep.Title != "Pilot" {
		t.Fatalf("unexpected episode: %+v", ep)
	}
	if ep.Board.Groups[0].Panels[0].Dialogues == nil {
		t.Fatalf("expected normalized board")
	}
	if string(ep.Extra["plot"]) != `"x"` {
		t.Fatalf("expected unknown field passed through; got %v", ep.Extra)
	}

	res = do(t, http.MethodGet, ts.URL+"/api/projects/p1/episodes", "", "")
	var list []model.EpisodeSummary
	if err := json.NewDecoder(res.Body).Decode(&list); err != nil || len(list) != 1 {
		t.Fatalf("unexpected list: %+v %v", list, err)
	}
}

func TestEpisodePut_Rejects(t *testing.T) {
	_, ts := newTestServer(t, "")
	url := ts.URL + "/api/projects/p1/episodes/e1"
	if res := do(t, http.MethodPut, url, "", `{not json`); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json; got %d", res.StatusCode)
	}
	if res := do(t, http.MethodPut, url, "", `{"id":"other"}`); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for id mismatch; got %d", res.StatusCode)
	}
}

func TestEpisodeDelete(t *testing.T) {
	_, ts := newTestServer(t, "")
	url := ts.URL + "/api/projects/p1/episodes/e1"
	do(t, http.MethodPut, url, "", `{}`)
	if res := do(t, http.MethodDelete, url, "", ""); res.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204; got %d", res.StatusCode)
	}
	if res := do(t, http.MethodDelete, url, "", ""); res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404; got %d", res.StatusCode)
	}
}

func TestToken(t *testing.T) {
	_, ts := newTestServer(t, "tok")
	url := ts.URL + "/api/projects/p1/episodes"
	if res := do(t, http.MethodGet, url, "", ""); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401; got %d", res.StatusCode)
	}
	if res := do(t, http.MethodGet, url, "wrong", ""); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401; got %d", res.StatusCode)
	}
	if res := do(t, http.MethodGet, url, "tok", ""); res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200; got %d", res.StatusCode)
	}
	if res := do(t, http.MethodGet, url+"?token=tok", "", ""); res.StatusCode != http.StatusOK {
		t.Fatalf("expected query token accepted; got %d", res.StatusCode)
	}
}

func TestWebsocket_PushesSaveEvent(t *testing.T) {
	srv, ts := newTestServer(t, "")
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/projects/p1/episodes/e1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Wait until the handler has subscribed.
	hub := srv.hubs.hubFor("p1", "e1")
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.Lock()
		n := len(hub.subs)
		hub.mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for subscription")
		}
		time.Sleep(10 * time.Millisecond)
	}

	do(t, http.MethodPut, ts.URL+"/api/projects/p1/episodes/e1", "", `{"title":"x"}`)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev model.EpisodeEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != model.EpisodeEventSaved || ev.EpisodeID != "e1" || ev.LastEdited.IsZero() {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	srv, err := NewServer(ServerConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	res, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = res.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}
