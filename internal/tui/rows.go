package tui

import (
	"nameboard/internal/model"
)

// row is one line of the flattened board.
type row struct {
	kind     model.Kind
	id       string
	parentID string
	index    int
	depth    int
	// children counts direct children on the board, even when the row is collapsed.
	children  int
	collapsed bool

	group    *model.Group
	panel    *model.Panel
	dialogue *model.Dialogue
	// panelNo numbers panels across the whole board, starting at 1.
	panelNo int
}

// flattenBoard walks the board depth-first: group, its panels, each panel's dialogues.
// Children of collapsed rows are skipped.
func flattenBoard(b model.Board, collapsed map[string]bool) []row {
	var out []row
	panelNo := 0
	for gi := range b.Groups {
		g := &b.Groups[gi]
		out = append(out, row{
			kind:      model.KindGroup,
			id:        g.ID,
			index:     gi,
			children:  len(g.Panels),
			collapsed: collapsed[g.ID],
			group:     g,
		})
		for pi := range g.Panels {
			p := &g.Panels[pi]
			panelNo++
			if collapsed[g.ID] {
				continue
			}
			out = append(out, row{
				kind:      model.KindPanel,
				id:        p.ID,
				parentID:  g.ID,
				index:     pi,
				depth:     1,
				children:  len(p.Dialogues),
				collapsed: collapsed[p.ID],
				group:     g,
				panel:     p,
				panelNo:   panelNo,
			})
			if collapsed[p.ID] {
				continue
			}
			for di := range p.Dialogues {
				out = append(out, row{
					kind:     model.KindDialogue,
					id:       p.Dialogues[di].ID,
					parentID: p.ID,
					index:    di,
					depth:    2,
					group:    g,
					panel:    p,
					dialogue: &p.Dialogues[di],
					panelNo:  panelNo,
				})
			}
		}
	}
	return out
}

func rowIndex(rows []row, id string) int {
	for i, r := range rows {
		if r.id == id {
			return i
		}
	}
	return -1
}

// groupID returns the group that owns the row (the row itself for groups).
func (r row) groupID() string {
	if r.group != nil {
		return r.group.ID
	}
	return ""
}

// panelID returns the panel id that owns the row, or "" for group rows.
func (r row) panelID() string {
	if r.panel != nil {
		return r.panel.ID
	}
	return ""
}
