package cli

import (
	"strconv"
	"strings"
	"time"

	"nameboard/internal/model"
)

type episodeList []model.EpisodeSummary

func (l episodeList) TableHeader() []string {
	return []string{"ID", "TITLE", "LAST EDITED"}
}

func (l episodeList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		edited := ""
		if !e.LastEdited.IsZero() {
			edited = e.LastEdited.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{e.ID, e.Title, edited})
	}
	return rows
}

// boardTable flattens a board into one row per item.
type boardTable model.Board

func (b boardTable) TableHeader() []string {
	return []string{"KIND", "ID", "PARENT", "#", "CONTENT"}
}

func (b boardTable) TableRows() [][]string {
	var rows [][]string
	for gi, g := range b.Groups {
		content := g.Label
		if g.Classification != "" {
			content += " [" + g.Classification + "]"
		}
		if len(g.Tags) > 0 {
			content += " #" + strings.Join(g.Tags, " #")
		}
		rows = append(rows, []string{string(model.KindGroup), g.ID, "", strconv.Itoa(gi), content})
		for pi, p := range g.Panels {
			rows = append(rows, []string{"  " + string(model.KindPanel), p.ID, g.ID, strconv.Itoa(pi), p.Attachment})
			for di, d := range p.Dialogues {
				line := d.Speaker
				if line == "" {
					line = "?"
				}
				line += ": " + d.Text
				rows = append(rows, []string{"    " + string(model.KindDialogue), d.ID, p.ID, strconv.Itoa(di), line})
			}
		}
	}
	return rows
}

type characterList []model.Character

func (l characterList) TableHeader() []string {
	return []string{"ID", "NAME", "GROUPS", "DESCRIPTION"}
}

func (l characterList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, c := range l {
		rows = append(rows, []string{c.ID, c.Name, strings.Join(c.GroupIDs, ","), c.Description})
	}
	return rows
}

type characterGroupList []model.CharacterGroup

func (l characterGroupList) TableHeader() []string {
	return []string{"ID", "NAME", "COLOR"}
}

func (l characterGroupList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, g := range l {
		rows = append(rows, []string{g.ID, g.Name, g.Color})
	}
	return rows
}
