package web

import (
	"sync"

	"nameboard/internal/model"
)

// episodeHub fans out save events for one episode to its watchers.
type episodeHub struct {
	mu   sync.Mutex
	subs map[chan model.EpisodeEvent]struct{}
}

func newEpisodeHub() *episodeHub {
	return &episodeHub{subs: map[chan model.EpisodeEvent]struct{}{}}
}

func (h *episodeHub) subscribe() (ch chan model.EpisodeEvent, cancel func()) {
	ch = make(chan model.EpisodeEvent, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
			h.mu.Unlock()
		})
	}
}

// broadcast drops the event for subscribers whose buffer is full; they catch up on the next one.
func (h *episodeHub) broadcast(ev model.EpisodeEvent) {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	h.mu.Unlock()
}

func (h *episodeHub) closeAll() {
	h.mu.Lock()
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

type hubSet struct {
	mu   sync.Mutex
	hubs map[string]*episodeHub
}

func newHubSet() *hubSet {
	return &hubSet{hubs: map[string]*episodeHub{}}
}

func (s *hubSet) hubFor(projectID, episodeID string) *episodeHub {
	k := projectID + "/" + episodeID
	s.mu.Lock()
	h := s.hubs[k]
	if h == nil {
		h = newEpisodeHub()
		s.hubs[k] = h
	}
	s.mu.Unlock()
	return h
}

func (s *hubSet) closeAll() {
	s.mu.Lock()
	hubs := make([]*episodeHub, 0, len(s.hubs))
	for _, h := range s.hubs {
		hubs = append(hubs, h)
	}
	s.mu.Unlock()
	for _, h := range hubs {
		h.closeAll()
	}
}
