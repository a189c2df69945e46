package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies one level of the board hierarchy.
type Kind string

const (
	KindGroup    Kind = "group"
	KindPanel    Kind = "panel"
	KindDialogue Kind = "dialogue"
)

// ParseKind accepts the singular and plural spellings used on the CLI.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "group", "groups", "g":
		return KindGroup, nil
	case "panel", "panels", "p":
		return KindPanel, nil
	case "dialogue", "dialogues", "d":
		return KindDialogue, nil
	default:
		return "", fmt.Errorf("unknown kind: %q", s)
	}
}

// ParentKind returns the kind that owns items of k. Groups are owned by the board itself ("").
func (k Kind) ParentKind() Kind {
	switch k {
	case KindPanel:
		return KindGroup
	case KindDialogue:
		return KindPanel
	default:
		return ""
	}
}

// ChildKind returns the kind of items owned by k, or "" for dialogues.
func (k Kind) ChildKind() Kind {
	switch k {
	case KindGroup:
		return KindPanel
	case KindPanel:
		return KindDialogue
	default:
		return ""
	}
}

type Dialogue struct {
	ID         string `json:"id"`
	Speaker    string `json:"speaker"`
	SpeakerRef string `json:"speakerRef,omitempty"`
	Text       string `json:"text"`
	Note       string `json:"note,omitempty"`
}

type Panel struct {
	ID string `json:"id"`

	// Attachment is an opaque reference to a drawing (URL or data URL). Never interpreted here.
	Attachment string     `json:"attachment"`
	Dialogues  []Dialogue `json:"dialogues"`
}

type Group struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Classification string   `json:"classification"`
	Tags           []string `json:"tags"`
	Panels         []Panel  `json:"panels"`
}

// Board is the full three-level hierarchy for one episode.
//
// Boards are treated as immutable values: code that needs a different board builds a new one
// (see internal/mutate) and may share untouched slices with the old one.
type Board struct {
	Groups []Group `json:"groups"`
}

func NewBoard() Board {
	return Board{Groups: []Group{}}
}

// Normalize returns b with every nil slice replaced by an empty one.
// Slices that are already non-nil are shared, not copied.
func (b Board) Normalize() Board {
	if b.Groups == nil {
		return Board{Groups: []Group{}}
	}
	dirty := false
	for _, g := range b.Groups {
		if g.needsNormalize() {
			dirty = true
			break
		}
	}
	if !dirty {
		return b
	}
	groups := make([]Group, len(b.Groups))
	for i, g := range b.Groups {
		groups[i] = g.normalize()
	}
	return Board{Groups: groups}
}

func (g Group) needsNormalize() bool {
	if g.Tags == nil || g.Panels == nil {
		return true
	}
	for _, p := range g.Panels {
		if p.Dialogues == nil {
			return true
		}
	}
	return false
}

func (g Group) normalize() Group {
	if !g.needsNormalize() {
		return g
	}
	if g.Tags == nil {
		g.Tags = []string{}
	}
	if g.Panels == nil {
		g.Panels = []Panel{}
		return g
	}
	panels := make([]Panel, len(g.Panels))
	for i, p := range g.Panels {
		if p.Dialogues == nil {
			p.Dialogues = []Dialogue{}
		}
		panels[i] = p
	}
	g.Panels = panels
	return g
}

// UnmarshalJSON decodes a board and normalizes missing arrays to empty ones.
func (b *Board) UnmarshalJSON(data []byte) error {
	type wire Board
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*b = Board(w).Normalize()
	return nil
}

// Episode is the persisted document. Board is the hierarchy field; Extra carries the sibling
// top-level fields owned by the surrounding document so they survive a replace round-trip.
type Episode struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId"`
	Title      string    `json:"title"`
	LastEdited time.Time `json:"lastEdited"`
	Board      Board     `json:"structureBoard"`

	Extra map[string]json.RawMessage `json:"-"`
}

var episodeKnownFields = map[string]bool{
	"id":             true,
	"projectId":      true,
	"title":          true,
	"lastEdited":     true,
	"structureBoard": true,
}

func (e Episode) MarshalJSON() ([]byte, error) {
	type wire Episode
	b, err := json.Marshal(wire(e))
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return b, nil
	}
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range e.Extra {
		if episodeKnownFields[k] {
			continue
		}
		m[k] = v
	}
	return json.Marshal(m)
}

func (e *Episode) UnmarshalJSON(data []byte) error {
	type wire Episode
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for k := range episodeKnownFields {
		delete(m, k)
	}
	*e = Episode(w)
	e.Board = e.Board.Normalize()
	if len(m) > 0 {
		e.Extra = m
	} else {
		e.Extra = nil
	}
	return nil
}

// EpisodeSummary is the listing shape (no board payload).
type EpisodeSummary struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId"`
	Title      string    `json:"title"`
	LastEdited time.Time `json:"lastEdited"`
}

func (e Episode) Summary() EpisodeSummary {
	return EpisodeSummary{ID: e.ID, ProjectID: e.ProjectID, Title: e.Title, LastEdited: e.LastEdited}
}

// Character is a roster entry a Dialogue may reference as its speaker.
type Character struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon,omitempty"`
	GroupIDs    []string `json:"groupIds,omitempty"`
}

// CharacterGroup is a roster category (e.g. main cast, rivals).
type CharacterGroup struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// EpisodeEventSaved is pushed to watchers after an episode document is replaced.
const EpisodeEventSaved = "episode.saved"

// EpisodeEvent is the websocket notification sent by the document server.
type EpisodeEvent struct {
	Type       string    `json:"type"`
	ProjectID  string    `json:"projectId"`
	EpisodeID  string    `json:"episodeId"`
	LastEdited time.Time `json:"lastEdited"`
}
