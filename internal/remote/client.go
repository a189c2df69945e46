// Package remote talks to a nameboard document server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"nameboard/internal/model"

	"github.com/gorilla/websocket"
)

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New returns a client with a per-request timeout.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Token:   strings.TrimSpace(token),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func episodePath(projectID, episodeID string) string {
	return "/api/projects/" + url.PathEscape(projectID) + "/episodes/" + url.PathEscape(episodeID)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, payload any) (*http.Request, error) {
	if c.BaseURL == "" {
		return nil, errors.New("remote: base url is empty")
	}
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, op string, payload, dst any) error {
	req, err := c.newRequest(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	res, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()
	if err := ExpectStatus(res, http.StatusOK, op); err != nil {
		return err
	}
	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) GetEpisode(ctx context.Context, projectID, episodeID string) (model.Episode, error) {
	var ep model.Episode
	err := c.do(ctx, http.MethodGet, episodePath(projectID, episodeID), "get episode", nil, &ep)
	return ep, err
}

// PutEpisode replaces the stored document and returns what the server stored.
func (c *Client) PutEpisode(ctx context.Context, ep model.Episode) (model.Episode, error) {
	var saved model.Episode
	err := c.do(ctx, http.MethodPut, episodePath(ep.ProjectID, ep.ID), "put episode", ep, &saved)
	return saved, err
}

func (c *Client) ListEpisodes(ctx context.Context, projectID string) ([]model.EpisodeSummary, error) {
	var out []model.EpisodeSummary
	err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/episodes", "list episodes", nil, &out)
	return out, err
}

// Watch streams save events for one episode to fn until ctx is cancelled or the server closes
// the connection. A cancelled ctx returns nil.
func (c *Client) Watch(ctx context.Context, projectID, episodeID string, fn func(model.EpisodeEvent)) error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/projects/" + url.PathEscape(projectID) + "/episodes/" + url.PathEscape(episodeID)

	header := http.Header{}
	if c.Token != "" {
		header.Set("Authorization", "Bearer "+c.Token)
	}
	conn, res, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if res != nil {
			return ExpectStatus(res, http.StatusSwitchingProtocols, "watch episode")
		}
		return fmt.Errorf("watch episode: %w", err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		var ev model.EpisodeEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("watch episode: %w", err)
		}
		fn(ev)
	}
}

// EpisodeWriter replaces an episode's Board on the server, keeping the rest of the document.
// It implements autosave.Writer.
type EpisodeWriter struct {
	client *Client

	mu   sync.Mutex
	base model.Episode
}

// BoardWriter returns a writer that splices each Board into base and PUTs the whole document.
func (c *Client) BoardWriter(base model.Episode) *EpisodeWriter {
	return &EpisodeWriter{client: c, base: base}
}

func (w *EpisodeWriter) Write(ctx context.Context, b model.Board) error {
	w.mu.Lock()
	ep := w.base
	w.mu.Unlock()

	ep.Board = b
	ep.LastEdited = time.Now().UTC()
	saved, err := w.client.PutEpisode(ctx, ep)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.base.Board = b
	w.base.LastEdited = saved.LastEdited
	w.mu.Unlock()
	return nil
}

// Episode returns the document as last written.
func (w *EpisodeWriter) Episode() model.Episode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.base
}
