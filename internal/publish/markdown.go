package publish

import (
	"bytes"
	"fmt"
	"strings"

	"nameboard/internal/model"
	"nameboard/internal/roster"
)

const unassignedSpeaker = "(unassigned)"

// RenderEpisodeMarkdown renders an episode as a script: one section per group, numbered panels,
// and one line per dialogue. Speakers linked to the roster are printed under their current roster
// name. lookup may be nil.
func RenderEpisodeMarkdown(ep model.Episode, lookup roster.Lookup) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(ep.Title)
	if title == "" {
		title = ep.ID
	}
	writeLn("# " + title)
	writeLn("")
	if !ep.LastEdited.IsZero() {
		writeLn("_Last edited " + ep.LastEdited.UTC().Format("2006-01-02 15:04 MST") + "_")
		writeLn("")
	}

	if len(ep.Board.Groups) == 0 {
		writeLn("_Empty board._")
		return buf.String()
	}

	cast := []model.Character{}
	seen := map[string]bool{}
	panelNo := 0
	for _, g := range ep.Board.Groups {
		heading := strings.TrimSpace(g.Label)
		if heading == "" {
			heading = "Untitled group"
		}
		writeLn("## " + heading)
		writeLn("")
		var meta []string
		if c := strings.TrimSpace(g.Classification); c != "" {
			meta = append(meta, "*"+c+"*")
		}
		for _, t := range g.Tags {
			meta = append(meta, "`"+t+"`")
		}
		if len(meta) > 0 {
			writeLn(strings.Join(meta, " · "))
			writeLn("")
		}

		for _, p := range g.Panels {
			panelNo++
			writeLn(fmt.Sprintf("### Panel %d", panelNo))
			writeLn("")
			if a := strings.TrimSpace(p.Attachment); a != "" && !strings.HasPrefix(a, "data:") {
				writeLn(fmt.Sprintf("![panel %d](%s)", panelNo, a))
				writeLn("")
			}
			if len(p.Dialogues) == 0 {
				writeLn("_No dialogue._")
				writeLn("")
				continue
			}
			for _, d := range p.Dialogues {
				name := speakerName(d, lookup)
				if lookup != nil && d.SpeakerRef != "" && !seen[d.SpeakerRef] {
					if c, ok := lookup.Lookup(d.SpeakerRef); ok {
						seen[d.SpeakerRef] = true
						cast = append(cast, c)
					}
				}
				line := strings.TrimSpace(d.Text)
				writeLn(fmt.Sprintf("**%s**: %s", name, line))
				writeLn("")
				if note := strings.TrimSpace(d.Note); note != "" {
					for _, l := range strings.Split(note, "\n") {
						writeLn("> " + l)
					}
					writeLn("")
				}
			}
		}
	}

	if len(cast) > 0 {
		writeLn("## Cast")
		writeLn("")
		for _, c := range cast {
			if d := strings.TrimSpace(c.Description); d != "" {
				writeLn("- **" + c.Name + "**: " + d)
			} else {
				writeLn("- **" + c.Name + "**")
			}
		}
	}
	return strings.TrimRight(buf.String(), "\n") + "\n"
}

func speakerName(d model.Dialogue, lookup roster.Lookup) string {
	if lookup != nil && d.SpeakerRef != "" {
		if c, ok := lookup.Lookup(d.SpeakerRef); ok && strings.TrimSpace(c.Name) != "" {
			return strings.TrimSpace(c.Name)
		}
	}
	if s := strings.TrimSpace(d.Speaker); s != "" {
		return s
	}
	return unassignedSpeaker
}
