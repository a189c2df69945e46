// Package roster stores the project's characters and their categories. The editor only needs a
// read-only Lookup to prefill speaker names.
package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"nameboard/internal/model"
	"nameboard/internal/store"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Lookup resolves a character by id.
type Lookup interface {
	Lookup(id string) (model.Character, bool)
}

// Roster is the persisted character list of one project.
type Roster struct {
	Characters []model.Character      `json:"characters"`
	Groups     []model.CharacterGroup `json:"groups"`
}

// DefaultGroups are seeded into new rosters.
func DefaultGroups() []model.CharacterGroup {
	return []model.CharacterGroup{
		{ID: "g1", Name: "Main cast", Color: "#ef4444"},
		{ID: "g2", Name: "Rivals", Color: "#3b82f6"},
		{ID: "g3", Name: "Supporting", Color: "#10b981"},
	}
}

func New() *Roster {
	return &Roster{Characters: []model.Character{}, Groups: DefaultGroups()}
}

// Load reads a roster file. A missing file yields a new roster with the default groups.
func Load(path string) (*Roster, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, err
	}
	var r Roster
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	if r.Characters == nil {
		r.Characters = []model.Character{}
	}
	if r.Groups == nil {
		r.Groups = DefaultGroups()
	}
	return &r, nil
}

// Save writes the roster atomically, keeping the previous file as path.bak.
func (r *Roster) Save(path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return store.ReplaceFileWithBackup(path, append(b, '\n'), 0o644)
}

func (r *Roster) Lookup(id string) (model.Character, bool) {
	for _, c := range r.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return model.Character{}, false
}

func (r *Roster) Group(id string) (model.CharacterGroup, bool) {
	for _, g := range r.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return model.CharacterGroup{}, false
}

// Add appends a character. Unknown group ids are rejected.
func (r *Roster) Add(name, description string, groupIDs ...string) (model.Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Character{}, errors.New("character name is required")
	}
	for _, gid := range groupIDs {
		if _, ok := r.Group(gid); !ok {
			return model.Character{}, fmt.Errorf("character group not found: %s", gid)
		}
	}
	c := model.Character{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		GroupIDs:    uniqueIDs(groupIDs),
	}
	r.Characters = append(r.Characters, c)
	return c, nil
}

func uniqueIDs(ids []string) []string {
	var out []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// AddGroup appends a character category.
func (r *Roster) AddGroup(name, color string) (model.CharacterGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.CharacterGroup{}, errors.New("group name is required")
	}
	g := model.CharacterGroup{ID: uuid.NewString(), Name: name, Color: strings.TrimSpace(color)}
	r.Groups = append(r.Groups, g)
	return g, nil
}

// InGroup lists the characters tagged with groupID, in roster order.
func (r *Roster) InGroup(groupID string) []model.Character {
	var out []model.Character
	for _, c := range r.Characters {
		if slices.Contains(c.GroupIDs, groupID) {
			out = append(out, c)
		}
	}
	return out
}

// FindByName returns characters whose name contains query, ignoring case and Unicode width
// differences (full-width and half-width forms match).
func (r *Roster) FindByName(query string) []model.Character {
	q := foldName(query)
	if q == "" {
		return nil
	}
	var exact, partial []model.Character
	for _, c := range r.Characters {
		n := foldName(c.Name)
		switch {
		case n == q:
			exact = append(exact, c)
		case strings.Contains(n, q):
			partial = append(partial, c)
		}
	}
	return append(exact, partial...)
}

// A Caser keeps state, so each call gets its own.
func foldName(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}
