// Package web serves episode documents over HTTP. The server is a dumb document store: it
// decodes, stores and returns whole episodes and tells websocket watchers when one changes.
package web

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"nameboard/internal/logging"
	"nameboard/internal/model"
	"nameboard/internal/store"
)

const maxEpisodeBytes = 32 << 20

type ServerConfig struct {
	Addr string
	// Dir is the workspace directory backing the document store.
	Dir string
	// Token, when set, is required as a bearer token on /api and /ws routes.
	Token  string
	Logger *slog.Logger
}

type Server struct {
	cfg   ServerConfig
	store store.Store
	hubs  *hubSet
	log   *slog.Logger
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	cfg.Token = strings.TrimSpace(cfg.Token)
	if cfg.Dir == "" {
		return nil, errors.New("web: dir is empty")
	}
	st := store.Store{Dir: cfg.Dir}
	if err := st.Ensure(); err != nil {
		return nil, err
	}
	return &Server{
		cfg:   cfg,
		store: st,
		hubs:  newHubSet(),
		log:   logging.OrNop(cfg.Logger),
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/projects/{projectId}/episodes", s.requireToken(s.handleEpisodeList))
	mux.HandleFunc("GET /api/projects/{projectId}/episodes/{episodeId}", s.requireToken(s.handleEpisodeGet))
	mux.HandleFunc("PUT /api/projects/{projectId}/episodes/{episodeId}", s.requireToken(s.handleEpisodePut))
	mux.HandleFunc("DELETE /api/projects/{projectId}/episodes/{episodeId}", s.requireToken(s.handleEpisodeDelete))
	mux.HandleFunc("GET /ws/projects/{projectId}/episodes/{episodeId}", s.requireToken(s.handleEpisodeWS))
	return s.logRequests(mux)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- hs.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.hubs.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack is needed by the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleEpisodeList(w http.ResponseWriter, r *http.Request) {
	pid := r.PathValue("projectId")
	list, err := s.store.ListEpisodes(r.Context(), pid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleEpisodeGet(w http.ResponseWriter, r *http.Request) {
	pid, eid := r.PathValue("projectId"), r.PathValue("episodeId")
	ep, err := s.store.LoadEpisode(r.Context(), pid, eid)
	if err != nil {
		if store.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ep)
}

func (s *Server) handleEpisodePut(w http.ResponseWriter, r *http.Request) {
	pid, eid := r.PathValue("projectId"), r.PathValue("episodeId")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEpisodeBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body) > maxEpisodeBytes {
		writeError(w, http.StatusRequestEntityTooLarge, errors.New("episode too large"))
		return
	}
	var ep model.Episode
	if err := json.Unmarshal(body, &ep); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode episode: %w", err))
		return
	}
	if ep.ID == "" {
		ep.ID = eid
	}
	if ep.ProjectID == "" {
		ep.ProjectID = pid
	}
	if ep.ID != eid || ep.ProjectID != pid {
		writeError(w, http.StatusBadRequest, errors.New("episode ids in body do not match path"))
		return
	}
	saved, err := s.store.SaveEpisode(r.Context(), ep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.hubs.hubFor(pid, eid).broadcast(model.EpisodeEvent{
		Type:       model.EpisodeEventSaved,
		ProjectID:  pid,
		EpisodeID:  eid,
		LastEdited: saved.LastEdited,
	})
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleEpisodeDelete(w http.ResponseWriter, r *http.Request) {
	pid, eid := r.PathValue("projectId"), r.PathValue("episodeId")
	if err := s.store.DeleteEpisode(r.Context(), pid, eid); err != nil {
		if store.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
