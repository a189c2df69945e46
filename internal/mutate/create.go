package mutate

import (
	"fmt"

	"nameboard/internal/model"

	"github.com/google/uuid"
)

// NewID returns a fresh item id. Tests may replace it for deterministic ids.
var NewID = func() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return u.String(), nil
}

// AddGroup appends a new group to the board.
func AddGroup(b model.Board, label, classification string) (model.Board, model.Group, error) {
	id, err := NewID()
	if err != nil {
		return b, model.Group{}, err
	}
	g := model.Group{
		ID:             id,
		Label:          label,
		Classification: classification,
		Tags:           []string{},
		Panels:         []model.Panel{},
	}
	b = b.Normalize()
	return model.Board{Groups: insertAt(b.Groups, len(b.Groups), g)}, g, nil
}

// AddPanel appends an empty panel to the group.
func AddPanel(b model.Board, groupID string) (model.Board, model.Panel, error) {
	gi, ok := b.GroupIndex(groupID)
	if !ok {
		return b, model.Panel{}, ParentNotFoundError{Kind: model.KindGroup, ID: groupID}
	}
	id, err := NewID()
	if err != nil {
		return b, model.Panel{}, err
	}
	p := model.Panel{ID: id, Dialogues: []model.Dialogue{}}
	next := withPanels(b, gi, func(ps []model.Panel) []model.Panel {
		return insertAt(ps, len(ps), p)
	})
	return next, p, nil
}

// AddDialogue appends an empty dialogue unit to the panel.
func AddDialogue(b model.Board, panelID string) (model.Board, model.Dialogue, error) {
	gi, pi, ok := b.PanelIndex(panelID)
	if !ok {
		return b, model.Dialogue{}, ParentNotFoundError{Kind: model.KindPanel, ID: panelID}
	}
	id, err := NewID()
	if err != nil {
		return b, model.Dialogue{}, err
	}
	d := model.Dialogue{ID: id}
	next := withDialogues(b, gi, pi, func(ds []model.Dialogue) []model.Dialogue {
		return insertAt(ds, len(ds), d)
	})
	return next, d, nil
}
