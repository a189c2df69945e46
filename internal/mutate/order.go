package mutate

import (
	"nameboard/internal/model"
)

// Reorder moves the item at fromIndex to toIndex within one parent's sequence.
// Groups are reordered with parentID "" (the board).
func Reorder(b model.Board, kind model.Kind, parentID string, fromIndex, toIndex int) (model.Board, error) {
	n, err := childCount(b, kind, parentID)
	if err != nil {
		return b, err
	}
	if fromIndex < 0 || fromIndex >= n {
		return b, IndexOutOfRangeError{Index: fromIndex, Len: n}
	}
	if toIndex < 0 || toIndex >= n {
		return b, IndexOutOfRangeError{Index: toIndex, Len: n}
	}
	if fromIndex == toIndex {
		return b, nil
	}

	switch kind {
	case model.KindGroup:
		return model.Board{Groups: moveWithin(b.Groups, fromIndex, toIndex)}, nil
	case model.KindPanel:
		gi, _ := b.GroupIndex(parentID)
		return withPanels(b, gi, func(ps []model.Panel) []model.Panel {
			return moveWithin(ps, fromIndex, toIndex)
		}), nil
	default:
		gi, pi, _ := b.PanelIndex(parentID)
		return withDialogues(b, gi, pi, func(ds []model.Dialogue) []model.Dialogue {
			return moveWithin(ds, fromIndex, toIndex)
		}), nil
	}
}

// Transfer removes itemID from fromParentID's sequence and inserts it into toParentID's sequence
// at toIndex, clamped to [0, len]. When both parents are the same the item is moved within it.
// Groups cannot change parent.
func Transfer(b model.Board, kind model.Kind, itemID, fromParentID, toParentID string, toIndex int) (model.Board, error) {
	if kind == model.KindGroup {
		if fromParentID != "" {
			return b, ParentNotFoundError{ID: fromParentID}
		}
		if toParentID != "" {
			return b, ParentNotFoundError{ID: toParentID}
		}
	}
	if !b.HasParent(kind, fromParentID) {
		return b, ParentNotFoundError{Kind: kind.ParentKind(), ID: fromParentID}
	}
	if !b.HasParent(kind, toParentID) {
		return b, ParentNotFoundError{Kind: kind.ParentKind(), ID: toParentID}
	}
	ids, _ := b.ChildIDs(kind, fromParentID)
	from := -1
	for i, id := range ids {
		if id == itemID {
			from = i
			break
		}
	}
	if from < 0 {
		return b, ItemNotFoundError{Kind: kind, ID: itemID}
	}

	if fromParentID == toParentID {
		to := clamp(toIndex, 0, len(ids)-1)
		return Reorder(b, kind, fromParentID, from, to)
	}

	switch kind {
	case model.KindPanel:
		srcG, _ := b.GroupIndex(fromParentID)
		dstG, _ := b.GroupIndex(toParentID)
		moved := b.Groups[srcG].Panels[from]
		next := withPanels(b, srcG, func(ps []model.Panel) []model.Panel {
			return removeAt(ps, from)
		})
		next = withPanels(next, dstG, func(ps []model.Panel) []model.Panel {
			return insertAt(ps, clamp(toIndex, 0, len(ps)), moved)
		})
		return next, nil
	default:
		sg, sp, _ := b.PanelIndex(fromParentID)
		dg, dp, _ := b.PanelIndex(toParentID)
		moved := b.Groups[sg].Panels[sp].Dialogues[from]
		next := withDialogues(b, sg, sp, func(ds []model.Dialogue) []model.Dialogue {
			return removeAt(ds, from)
		})
		next = withDialogues(next, dg, dp, func(ds []model.Dialogue) []model.Dialogue {
			return insertAt(ds, clamp(toIndex, 0, len(ds)), moved)
		})
		return next, nil
	}
}

func childCount(b model.Board, kind model.Kind, parentID string) (int, error) {
	switch kind {
	case model.KindGroup:
		if parentID != "" {
			return 0, ParentNotFoundError{ID: parentID}
		}
		return len(b.Groups), nil
	case model.KindPanel:
		gi, ok := b.GroupIndex(parentID)
		if !ok {
			return 0, ParentNotFoundError{Kind: model.KindGroup, ID: parentID}
		}
		return len(b.Groups[gi].Panels), nil
	case model.KindDialogue:
		gi, pi, ok := b.PanelIndex(parentID)
		if !ok {
			return 0, ParentNotFoundError{Kind: model.KindPanel, ID: parentID}
		}
		return len(b.Groups[gi].Panels[pi].Dialogues), nil
	}
	return 0, ParentNotFoundError{ID: parentID}
}
