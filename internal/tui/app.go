package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nameboard/internal/autosave"
	"nameboard/internal/drag"
	"nameboard/internal/editor"
	"nameboard/internal/model"
	"nameboard/internal/mutate"
	"nameboard/internal/roster"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeBrowse mode = iota
	modeDrag
	modeInput
	modeConfirm
)

type field int

const (
	fieldGroupLabel field = iota
	fieldClassification
	fieldTag
	fieldAttachment
	fieldText
	fieldSpeaker
	fieldNote
)

func (f field) prompt() string {
	switch f {
	case fieldGroupLabel:
		return "Label"
	case fieldClassification:
		return "Classification"
	case fieldTag:
		return "Toggle tag"
	case fieldAttachment:
		return "Attachment"
	case fieldSpeaker:
		return "Speaker"
	case fieldNote:
		return "Note"
	default:
		return "Line"
	}
}

// StatusMsg carries an autosave status change into the program.
type StatusMsg struct {
	Status autosave.Status
	Err    error
}

type saveDoneMsg struct{ err error }

const saveTimeout = 30 * time.Second

type appModel struct {
	ed     *editor.Editor
	roster *roster.Roster
	sink   *StatusSink
	title  string

	keys keyMap
	help help.Model

	rows      []row
	cursorID  string
	collapsed map[string]bool
	offset    int

	mode  mode
	input textinput.Model
	field field
	// target of the open input or delete confirmation
	targetKind model.Kind
	targetID   string

	status    autosave.Status
	statusErr error
	message   string

	width, height int
	showHelp      bool
}

func newAppModel(opts Options) appModel {
	ti := textinput.New()
	ti.CharLimit = 2000
	m := appModel{
		ed:        opts.Editor,
		roster:    opts.Roster,
		sink:      opts.Status,
		title:     opts.Title,
		keys:      defaultKeyMap(),
		help:      help.New(),
		collapsed: map[string]bool{},
		input:     ti,
		width:     80,
		height:    24,
	}
	m.refresh()
	return m
}

func (m appModel) Init() tea.Cmd {
	return m.sink.wait()
}

// refresh rebuilds rows from the editor's view and keeps the cursor on the same item.
func (m *appModel) refresh() {
	m.rows = flattenBoard(m.ed.View(), m.collapsed)
	if len(m.rows) == 0 {
		m.cursorID = ""
		return
	}
	if rowIndex(m.rows, m.cursorID) < 0 {
		m.cursorID = m.rows[0].id
	}
}

func (m appModel) cursor() int {
	if i := rowIndex(m.rows, m.cursorID); i >= 0 {
		return i
	}
	return 0
}

func (m appModel) current() (row, bool) {
	if len(m.rows) == 0 {
		return row{}, false
	}
	return m.rows[m.cursor()], true
}

func (m *appModel) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	i := m.cursor() + delta
	i = max(0, min(i, len(m.rows)-1))
	m.cursorID = m.rows[i].id
	m.offset = scrollStart(i, len(m.rows), m.bodyHeight(), m.offset)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case StatusMsg:
		m.status, m.statusErr = msg.Status, msg.Err
		return m, m.sink.wait()
	case saveDoneMsg:
		if msg.err != nil {
			m.message = "save failed: " + msg.err.Error()
		} else {
			m.message = "saved"
		}
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeDrag:
			return m.updateDrag(msg)
		case modeInput:
			return m.updateInput(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	r, ok := m.current()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Save):
		return m, m.saveCmd()
	case key.Matches(msg, m.keys.AddGroup):
		g, err := m.ed.AddGroup("", "")
		if m.fail(err) {
			return m, nil
		}
		m.refresh()
		m.cursorID = g.ID
		return m.openInput(fieldGroupLabel, model.KindGroup, g.ID, "")
	case !ok:
		return m, nil
	case key.Matches(msg, m.keys.Collapse):
		if r.kind != model.KindDialogue {
			m.collapsed[r.id] = !m.collapsed[r.id]
			m.refresh()
		}
	case key.Matches(msg, m.keys.Grab):
		if m.fail(m.ed.BeginDrag(r.kind, r.id)) {
			return m, nil
		}
		m.mode = modeDrag
		m.refresh()
	case key.Matches(msg, m.keys.AddPanel):
		p, err := m.ed.AddPanel(r.groupID())
		if m.fail(err) {
			return m, nil
		}
		m.collapsed[r.groupID()] = false
		m.refresh()
		m.cursorID = p.ID
	case key.Matches(msg, m.keys.AddDialogue):
		if r.panelID() == "" {
			m.message = "select a panel first"
			return m, nil
		}
		d, err := m.ed.AddDialogue(r.panelID())
		if m.fail(err) {
			return m, nil
		}
		m.collapsed[r.panelID()] = false
		m.refresh()
		m.cursorID = d.ID
		return m.openInput(fieldText, model.KindDialogue, d.ID, "")
	case key.Matches(msg, m.keys.Edit):
		switch r.kind {
		case model.KindGroup:
			return m.openInput(fieldGroupLabel, r.kind, r.id, r.group.Label)
		case model.KindPanel:
			return m.openInput(fieldAttachment, r.kind, r.id, r.panel.Attachment)
		default:
			return m.openInput(fieldText, r.kind, r.id, r.dialogue.Text)
		}
	case key.Matches(msg, m.keys.Speaker):
		if r.kind == model.KindDialogue {
			return m.openInput(fieldSpeaker, r.kind, r.id, r.dialogue.Speaker)
		}
	case key.Matches(msg, m.keys.Note):
		if r.kind == model.KindDialogue {
			return m.openInput(fieldNote, r.kind, r.id, r.dialogue.Note)
		}
	case key.Matches(msg, m.keys.Class):
		if r.kind == model.KindGroup {
			return m.openInput(fieldClassification, r.kind, r.id, r.group.Classification)
		}
	case key.Matches(msg, m.keys.Tag):
		if r.kind == model.KindGroup {
			return m.openInput(fieldTag, r.kind, r.id, "")
		}
	case key.Matches(msg, m.keys.Delete):
		m.mode = modeConfirm
		m.targetKind, m.targetID = r.kind, r.id
	}
	return m, nil
}

func (m appModel) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind, id, _, _ := m.ed.DragTarget()
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		dir := 1
		if key.Matches(msg, m.keys.Up) {
			dir = -1
		}
		if t, ok := neighbourTarget(m.rows, kind, id, dir); ok {
			m.fail(m.ed.DragOver(t))
		}
		m.refresh()
		m.cursorID = id
	case key.Matches(msg, m.keys.Drop):
		_, err := m.ed.Drop()
		if err != nil && !errors.Is(err, drag.ErrDragAborted) {
			m.fail(err)
		}
		m.mode = modeBrowse
		m.refresh()
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.ed.CancelDrag()
		m.mode = modeBrowse
		m.refresh()
	}
	return m, nil
}

func (m appModel) openInput(f field, kind model.Kind, id, value string) (tea.Model, tea.Cmd) {
	m.mode = modeInput
	m.field = f
	m.targetKind, m.targetID = kind, id
	m.input.Prompt = f.prompt() + ": "
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeBrowse
		m.input.Blur()
		m.fail(m.applyInput(m.input.Value()))
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) applyInput(v string) error {
	switch m.field {
	case fieldGroupLabel:
		return m.ed.Update(model.KindGroup, m.targetID, mutate.Patch{Label: &v})
	case fieldClassification:
		return m.ed.Update(model.KindGroup, m.targetID, mutate.Patch{Classification: &v})
	case fieldTag:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return m.ed.ToggleTag(m.targetID, v)
	case fieldAttachment:
		return m.ed.Update(model.KindPanel, m.targetID, mutate.Patch{Attachment: &v})
	case fieldNote:
		return m.ed.Update(model.KindDialogue, m.targetID, mutate.Patch{Note: &v})
	case fieldSpeaker:
		return m.setSpeaker(v)
	default:
		return m.ed.Update(model.KindDialogue, m.targetID, mutate.Patch{Text: &v})
	}
}

// setSpeaker links the dialogue when the name matches exactly one roster character and
// otherwise stores the typed name without a link.
func (m *appModel) setSpeaker(name string) error {
	if m.roster != nil && strings.TrimSpace(name) != "" {
		if found := m.roster.FindByName(name); len(found) == 1 {
			return m.ed.SelectSpeaker(m.targetID, found[0].ID)
		}
	}
	empty := ""
	return m.ed.Update(model.KindDialogue, m.targetID, mutate.Patch{Speaker: &name, SpeakerRef: &empty})
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	if msg.String() != "y" {
		m.message = "delete cancelled"
		return m, nil
	}
	at := m.cursor()
	if m.fail(m.ed.Delete(m.targetKind, m.targetID)) {
		return m, nil
	}
	// Keep the cursor near the deleted row: the next row outside its subtree, else the one above.
	m.cursorID = ""
	for next := at + 1; next < len(m.rows); next++ {
		if m.rows[next].depth <= depthOf(m.targetKind) {
			m.cursorID = m.rows[next].id
			break
		}
	}
	if m.cursorID == "" && at > 0 {
		m.cursorID = m.rows[at-1].id
	}
	m.refresh()
	m.message = fmt.Sprintf("deleted %s", m.targetKind)
	return m, nil
}

func depthOf(k model.Kind) int {
	switch k {
	case model.KindPanel:
		return 1
	case model.KindDialogue:
		return 2
	}
	return 0
}

func (m *appModel) fail(err error) bool {
	if err == nil {
		return false
	}
	m.message = err.Error()
	return true
}

func (m appModel) saveCmd() tea.Cmd {
	ed := m.ed
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return saveDoneMsg{err: ed.Save(ctx)}
	}
}
