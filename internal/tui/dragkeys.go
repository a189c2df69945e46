package tui

import (
	"nameboard/internal/drag"
	"nameboard/internal/model"
)

// neighbourTarget translates a keyboard move of the dragged row into the drag target the
// pointer would be over. dir is -1 for up and +1 for down. ok is false at the board edges.
func neighbourTarget(rows []row, kind model.Kind, id string, dir int) (drag.Target, bool) {
	at := rowIndex(rows, id)
	if at < 0 {
		return drag.Target{}, false
	}
	parentKind := kind.ParentKind()
	depth := rows[at].depth

	matches := func(r row) bool {
		return r.kind == kind || (parentKind != "" && r.kind == parentKind)
	}

	if dir > 0 {
		j := at + 1
		// Skip the dragged item's own subtree.
		for j < len(rows) && rows[j].depth > depth {
			j++
		}
		for ; j < len(rows); j++ {
			r := rows[j]
			if !matches(r) {
				continue
			}
			if r.kind == kind {
				return drag.ItemTarget(kind, r.id), true
			}
			// Next parent: land first when it has children, otherwise in its placeholder.
			if first, ok := firstChild(r, kind); ok {
				return drag.ItemTarget(kind, first), true
			}
			return drag.DropZoneTarget(r.id), true
		}
		return drag.Target{}, false
	}

	for j := at - 1; j >= 0; j-- {
		r := rows[j]
		if !matches(r) {
			continue
		}
		if r.kind == kind {
			return drag.ItemTarget(kind, r.id), true
		}
		// r is the item's own parent; the item moves to the end of the previous parent.
		for k := j - 1; k >= 0; k-- {
			if rows[k].kind == parentKind {
				return drag.ContainerTarget(rows[k].id), true
			}
		}
		return drag.Target{}, false
	}
	return drag.Target{}, false
}

func firstChild(parent row, kind model.Kind) (string, bool) {
	switch {
	case kind == model.KindPanel && parent.group != nil && len(parent.group.Panels) > 0:
		return parent.group.Panels[0].ID, true
	case kind == model.KindDialogue && parent.panel != nil && len(parent.panel.Dialogues) > 0:
		return parent.panel.Dialogues[0].ID, true
	}
	return "", false
}
