package mutate

import (
	"slices"
	"strings"

	"nameboard/internal/model"
)

// Patch holds optional content changes. Nil fields are left untouched; fields that do not
// belong to the patched kind are ignored. Identity and ownership are never patchable.
type Patch struct {
	// Group
	Label          *string
	Classification *string
	Tags           *[]string

	// Panel
	Attachment *string

	// Dialogue
	Speaker    *string
	SpeakerRef *string
	Text       *string
	Note       *string
}

func (p Patch) IsEmpty() bool {
	return p.Label == nil && p.Classification == nil && p.Tags == nil &&
		p.Attachment == nil &&
		p.Speaker == nil && p.SpeakerRef == nil && p.Text == nil && p.Note == nil
}

func (p Patch) applyGroup(g model.Group) model.Group {
	if p.Label != nil {
		g.Label = *p.Label
	}
	if p.Classification != nil {
		g.Classification = *p.Classification
	}
	if p.Tags != nil {
		g.Tags = normalizeTags(*p.Tags)
	}
	return g
}

func (p Patch) applyPanel(pn model.Panel) model.Panel {
	if p.Attachment != nil {
		pn.Attachment = *p.Attachment
	}
	return pn
}

func (p Patch) applyDialogue(d model.Dialogue) model.Dialogue {
	if p.Speaker != nil {
		d.Speaker = *p.Speaker
	}
	if p.SpeakerRef != nil {
		d.SpeakerRef = *p.SpeakerRef
	}
	if p.Text != nil {
		d.Text = *p.Text
	}
	if p.Note != nil {
		d.Note = *p.Note
	}
	return d
}

// normalizeTags trims, drops empties and duplicates, and keeps first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// UpdateItem merges patch into the content fields of the identified item.
func UpdateItem(b model.Board, kind model.Kind, id string, patch Patch) (model.Board, error) {
	switch kind {
	case model.KindGroup:
		gi, ok := b.GroupIndex(id)
		if !ok {
			return b, ItemNotFoundError{Kind: kind, ID: id}
		}
		if patch.IsEmpty() {
			return b, nil
		}
		return withGroup(b, gi, patch.applyGroup), nil
	case model.KindPanel:
		gi, pi, ok := b.PanelIndex(id)
		if !ok {
			return b, ItemNotFoundError{Kind: kind, ID: id}
		}
		if patch.IsEmpty() {
			return b, nil
		}
		return withPanel(b, gi, pi, patch.applyPanel), nil
	case model.KindDialogue:
		gi, pi, di, ok := b.DialogueIndex(id)
		if !ok {
			return b, ItemNotFoundError{Kind: kind, ID: id}
		}
		if patch.IsEmpty() {
			return b, nil
		}
		return withDialogues(b, gi, pi, func(ds []model.Dialogue) []model.Dialogue {
			return replaceAt(ds, di, patch.applyDialogue(ds[di]))
		}), nil
	}
	return b, ItemNotFoundError{Kind: kind, ID: id}
}

// ToggleTag adds tag to the group when absent and removes it when present.
func ToggleTag(b model.Board, groupID, tag string) (model.Board, error) {
	g, ok := b.FindGroup(groupID)
	if !ok {
		return b, ItemNotFoundError{Kind: model.KindGroup, ID: groupID}
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return b, nil
	}
	var next []string
	if slices.Contains(g.Tags, tag) {
		next = slices.DeleteFunc(slices.Clone(g.Tags), func(t string) bool { return t == tag })
	} else {
		next = append(slices.Clone(g.Tags), tag)
	}
	return UpdateItem(b, model.KindGroup, groupID, Patch{Tags: &next})
}

// DeleteItem removes the item and, for groups and panels, everything they contain.
func DeleteItem(b model.Board, kind model.Kind, id string) (model.Board, error) {
	switch kind {
	case model.KindGroup:
		gi, ok := b.GroupIndex(id)
		if !ok {
			return b, ItemNotFoundError{Kind: kind, ID: id}
		}
		return model.Board{Groups: removeAt(b.Groups, gi)}, nil
	case model.KindPanel:
		gi, pi, ok := b.PanelIndex(id)
		if !ok {
			return b, ItemNotFoundError{Kind: kind, ID: id}
		}
		return withPanels(b, gi, func(ps []model.Panel) []model.Panel {
			return removeAt(ps, pi)
		}), nil
	case model.KindDialogue:
		gi, pi, di, ok := b.DialogueIndex(id)
		if !ok {
			return b, ItemNotFoundError{Kind: kind, ID: id}
		}
		return withDialogues(b, gi, pi, func(ds []model.Dialogue) []model.Dialogue {
			return removeAt(ds, di)
		}), nil
	}
	return b, ItemNotFoundError{Kind: kind, ID: id}
}
