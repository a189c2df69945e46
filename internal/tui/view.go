package tui

import (
	"fmt"
	"strings"

	"nameboard/internal/autosave"
	"nameboard/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	bodyH := m.bodyHeight()
	lines := m.rowLines()
	start := scrollStart(m.cursor(), len(lines), bodyH, m.offset)
	for i := start; i < len(lines) && i < start+bodyH; i++ {
		b.WriteString(lines[i])
		b.WriteString("\n")
	}
	if len(lines) == 0 {
		b.WriteString(styleMuted().Render("Empty board. Press G to add a group."))
		b.WriteString("\n")
	}

	b.WriteString(m.footerView())
	return b.String()
}

func (m appModel) bodyHeight() int {
	h := m.height - 3
	if m.showHelp {
		h -= 2
	}
	return max(h, 3)
}

// scrollStart keeps the cursor inside a window of height h.
func scrollStart(cursor, n, h, offset int) int {
	if n <= h {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+h {
		offset = cursor - h + 1
	}
	return max(0, min(offset, n-h))
}

func (m appModel) headerView() string {
	title := m.title
	if title == "" {
		title = "nameboard"
	}
	left := styleTitle.Render(title)
	right := statusView(m.status, m.statusErr)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func statusView(st autosave.Status, err error) string {
	switch st {
	case autosave.Saved:
		return lipgloss.NewStyle().Foreground(colorOK).Render("● saved")
	case autosave.Saving:
		return lipgloss.NewStyle().Foreground(colorPending).Render("◌ saving")
	case autosave.Failed:
		msg := "✕ save failed"
		if err != nil {
			msg += ": " + err.Error()
		}
		return styleError.Render(msg)
	default:
		return lipgloss.NewStyle().Foreground(colorPending).Render("○ unsaved")
	}
}

func (m appModel) footerView() string {
	var parts []string
	switch m.mode {
	case modeInput:
		parts = append(parts, styleInput.Render(m.input.View()))
	case modeConfirm:
		parts = append(parts, styleError.Render(fmt.Sprintf("Delete this %s and everything in it? (y/N)", m.targetKind)))
	default:
		if m.message != "" {
			parts = append(parts, m.message)
		}
	}
	if m.showHelp || m.mode == modeDrag {
		bindings := m.keys.browseHelp()
		if m.mode == modeDrag {
			bindings = m.keys.dragHelp()
		}
		parts = append(parts, m.help.ShortHelpView(bindings))
	}
	return strings.Join(parts, "\n")
}

func (m appModel) rowLines() []string {
	draggedID := ""
	if m.mode == modeDrag {
		_, draggedID, _, _ = m.ed.DragTarget()
	}
	cursor := m.cursor()
	out := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		line := strings.Repeat("  ", r.depth) + rowText(r)
		line = xansi.Truncate(line, max(m.width, 10), "…")
		switch {
		case r.id == draggedID:
			line = styleDragged.Render(glyphGrab() + " " + line)
		case i == cursor:
			line = styleSelected.Render("  " + line)
		default:
			line = "  " + line
		}
		out = append(out, line)
	}
	return out
}

func rowText(r row) string {
	twisty := glyphTwistyExpanded()
	if r.collapsed {
		twisty = glyphTwistyCollapsed()
	}
	switch r.kind {
	case model.KindGroup:
		label := r.group.Label
		if strings.TrimSpace(label) == "" {
			label = "Untitled group"
		}
		s := twisty + " " + styleGroup.Render(label)
		if c := strings.TrimSpace(r.group.Classification); c != "" {
			s += " " + glyphSep() + " " + c
		}
		for _, t := range r.group.Tags {
			s += " #" + t
		}
		return s + styleMuted().Render(fmt.Sprintf("  (%d)", r.children))
	case model.KindPanel:
		s := fmt.Sprintf("%s Panel %d", twisty, r.panelNo)
		if a := strings.TrimSpace(r.panel.Attachment); a != "" {
			if strings.HasPrefix(a, "data:") {
				a = "[image]"
			}
			s += " " + styleMuted().Render(a)
		}
		return s
	default:
		d := r.dialogue
		speaker := strings.TrimSpace(d.Speaker)
		if speaker == "" {
			speaker = "?"
		}
		s := glyphBullet() + " " + lipgloss.NewStyle().Bold(true).Render(speaker) + ": " + d.Text
		if n := strings.TrimSpace(d.Note); n != "" {
			s += " " + styleMuted().Render("("+n+")")
		}
		return s
	}
}
