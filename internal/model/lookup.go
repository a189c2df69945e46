package model

import (
	"errors"
	"fmt"
)

func (b Board) GroupIndex(id string) (int, bool) {
	for i := range b.Groups {
		if b.Groups[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (b Board) FindGroup(id string) (*Group, bool) {
	i, ok := b.GroupIndex(id)
	if !ok {
		return nil, false
	}
	return &b.Groups[i], true
}

// PanelIndex returns the (group, panel) position of a panel.
func (b Board) PanelIndex(id string) (gi, pi int, ok bool) {
	for gi := range b.Groups {
		for pi := range b.Groups[gi].Panels {
			if b.Groups[gi].Panels[pi].ID == id {
				return gi, pi, true
			}
		}
	}
	return -1, -1, false
}

func (b Board) FindPanel(id string) (*Panel, bool) {
	gi, pi, ok := b.PanelIndex(id)
	if !ok {
		return nil, false
	}
	return &b.Groups[gi].Panels[pi], true
}

// DialogueIndex returns the (group, panel, dialogue) position of a dialogue.
func (b Board) DialogueIndex(id string) (gi, pi, di int, ok bool) {
	for gi := range b.Groups {
		for pi := range b.Groups[gi].Panels {
			ds := b.Groups[gi].Panels[pi].Dialogues
			for di := range ds {
				if ds[di].ID == id {
					return gi, pi, di, true
				}
			}
		}
	}
	return -1, -1, -1, false
}

func (b Board) FindDialogue(id string) (*Dialogue, bool) {
	gi, pi, di, ok := b.DialogueIndex(id)
	if !ok {
		return nil, false
	}
	return &b.Groups[gi].Panels[pi].Dialogues[di], true
}

// Locate returns the owning parent id and sibling index of an item.
// Groups report the board itself as parent ("").
func (b Board) Locate(kind Kind, id string) (parentID string, index int, ok bool) {
	switch kind {
	case KindGroup:
		i, ok := b.GroupIndex(id)
		return "", i, ok
	case KindPanel:
		gi, pi, ok := b.PanelIndex(id)
		if !ok {
			return "", -1, false
		}
		return b.Groups[gi].ID, pi, true
	case KindDialogue:
		gi, pi, di, ok := b.DialogueIndex(id)
		if !ok {
			return "", -1, false
		}
		return b.Groups[gi].Panels[pi].ID, di, true
	}
	return "", -1, false
}

// HasParent reports whether parentID can own items of kind.
func (b Board) HasParent(kind Kind, parentID string) bool {
	switch kind {
	case KindGroup:
		return parentID == ""
	case KindPanel:
		_, ok := b.GroupIndex(parentID)
		return ok
	case KindDialogue:
		_, _, ok := b.PanelIndex(parentID)
		return ok
	}
	return false
}

// ChildIDs lists, in order, the ids of the kind-items owned by parentID.
func (b Board) ChildIDs(kind Kind, parentID string) ([]string, bool) {
	switch kind {
	case KindGroup:
		if parentID != "" {
			return nil, false
		}
		out := make([]string, len(b.Groups))
		for i, g := range b.Groups {
			out[i] = g.ID
		}
		return out, true
	case KindPanel:
		gi, ok := b.GroupIndex(parentID)
		if !ok {
			return nil, false
		}
		ps := b.Groups[gi].Panels
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.ID
		}
		return out, true
	case KindDialogue:
		gi, pi, ok := b.PanelIndex(parentID)
		if !ok {
			return nil, false
		}
		ds := b.Groups[gi].Panels[pi].Dialogues
		out := make([]string, len(ds))
		for i, d := range ds {
			out[i] = d.ID
		}
		return out, true
	}
	return nil, false
}

// Count returns the number of items of kind across the whole board.
func (b Board) Count(kind Kind) int {
	n := 0
	for _, g := range b.Groups {
		switch kind {
		case KindGroup:
			n++
		case KindPanel:
			n += len(g.Panels)
		case KindDialogue:
			for _, p := range g.Panels {
				n += len(p.Dialogues)
			}
		}
	}
	return n
}

// Validate checks the structural invariants: no nil slices, non-empty unique ids.
func Validate(b Board) error {
	var errs []error
	seen := map[string]Kind{}
	check := func(kind Kind, id string) {
		if id == "" {
			errs = append(errs, fmt.Errorf("%s with empty id", kind))
			return
		}
		if prev, ok := seen[id]; ok {
			errs = append(errs, fmt.Errorf("duplicate id %s (%s and %s)", id, prev, kind))
			return
		}
		seen[id] = kind
	}
	if b.Groups == nil {
		errs = append(errs, errors.New("board groups is nil"))
	}
	for _, g := range b.Groups {
		check(KindGroup, g.ID)
		if g.Panels == nil {
			errs = append(errs, fmt.Errorf("group %s: panels is nil", g.ID))
		}
		if g.Tags == nil {
			errs = append(errs, fmt.Errorf("group %s: tags is nil", g.ID))
		}
		for _, p := range g.Panels {
			check(KindPanel, p.ID)
			if p.Dialogues == nil {
				errs = append(errs, fmt.Errorf("panel %s: dialogues is nil", p.ID))
			}
			for _, d := range p.Dialogues {
				check(KindDialogue, d.ID)
			}
		}
	}
	return errors.Join(errs...)
}
