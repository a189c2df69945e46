package tui

import (
	"errors"
	"strings"
	"testing"

	"nameboard/internal/autosave"
	"nameboard/internal/editor"
	"nameboard/internal/model"
	"nameboard/internal/roster"

	tea "github.com/charmbracelet/bubbletea"
)

func testBoard() model.Board {
	return model.Board{Groups: []model.Group{
		{ID: "G1", Label: "Cold open", Panels: []model.Panel{
			{ID: "P1", Dialogues: []model.Dialogue{{ID: "D1", Speaker: "Ann", Text: "hi"}, {ID: "D2", Speaker: "Bo", Text: "yo"}}},
			{ID: "P2", Dialogues: []model.Dialogue{{ID: "D3", Text: "later"}}},
		}},
		{ID: "G2", Label: "Act one", Panels: []model.Panel{}},
	}}.Normalize()
}

func newTestModel(t *testing.T) (appModel, *editor.Editor) {
	t.Helper()
	ed := editor.New(testBoard(), editor.Options{})
	return newAppModel(Options{Editor: ed, Title: "e1"}), ed
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m appModel, msgs ...tea.Msg) appModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(appModel)
	}
	return m
}

func typeText(t *testing.T, m appModel, s string) appModel {
	t.Helper()
	for _, r := range s {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func (m appModel) selectID(id string) appModel {
	m.cursorID = id
	return m
}

func dialogueIDs(b model.Board, panelID string) []string {
	for _, g := range b.Groups {
		for _, p := range g.Panels {
			if p.ID != panelID {
				continue
			}
			var out []string
			for _, d := range p.Dialogues {
				out = append(out, d.ID)
			}
			return out
		}
	}
	return nil
}

func TestApp_CursorMoves(t *testing.T) {
	m, _ := newTestModel(t)
	if m.cursorID != "G1" {
		t.Fatalf("expected cursor on G1, got %q", m.cursorID)
	}
	m = press(t, m, runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyDown})
	if m.cursorID != "D2" {
		t.Fatalf("expected cursor on D2, got %q", m.cursorID)
	}
	m = press(t, m, runes("k"))
	if m.cursorID != "D1" {
		t.Fatalf("expected cursor on D1, got %q", m.cursorID)
	}
	// Clamped at the top.
	m = press(t, m, runes("k"), runes("k"), runes("k"), runes("k"))
	if m.cursorID != "G1" {
		t.Fatalf("expected cursor clamped on G1, got %q", m.cursorID)
	}
}

func TestApp_KeyboardDragMovesDialogueToNextPanel(t *testing.T) {
	m, ed := newTestModel(t)
	m = m.selectID("D2")
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.mode != modeDrag || !ed.Dragging() {
		t.Fatalf("expected drag mode")
	}
	m = press(t, m, runes("j"))
	// Committed board is untouched until the drop.
	if got := dialogueIDs(ed.Board(), "P2"); strings.Join(got, ",") != "D3" {
		t.Fatalf("expected committed P2 unchanged, got %v", got)
	}
	if got := dialogueIDs(ed.View(), "P2"); strings.Join(got, ",") != "D2,D3" {
		t.Fatalf("expected speculative P2 [D2 D3], got %v", got)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeBrowse || ed.Dragging() {
		t.Fatalf("expected browse mode after drop")
	}
	if got := dialogueIDs(ed.Board(), "P2"); strings.Join(got, ",") != "D2,D3" {
		t.Fatalf("expected P2 [D2 D3], got %v", got)
	}
	if got := dialogueIDs(ed.Board(), "P1"); strings.Join(got, ",") != "D1" {
		t.Fatalf("expected P1 [D1], got %v", got)
	}
	if m.cursorID != "D2" {
		t.Fatalf("expected cursor to follow D2, got %q", m.cursorID)
	}
}

func TestApp_DragCancelRestores(t *testing.T) {
	m, ed := newTestModel(t)
	m = m.selectID("D1")
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, runes("j"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeBrowse || ed.Dragging() {
		t.Fatalf("expected browse mode after cancel")
	}
	if got := dialogueIDs(ed.Board(), "P1"); strings.Join(got, ",") != "D1,D2" {
		t.Fatalf("expected P1 unchanged, got %v", got)
	}
	if got := dialogueIDs(ed.View(), "P1"); strings.Join(got, ",") != "D1,D2" {
		t.Fatalf("expected view to match committed board, got %v", got)
	}
}

func TestApp_AddGroupThenLabel(t *testing.T) {
	m, ed := newTestModel(t)
	m = press(t, m, runes("G"))
	if m.mode != modeInput {
		t.Fatalf("expected input mode, got %v", m.mode)
	}
	m = typeText(t, m, "Finale")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	b := ed.Board()
	if len(b.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(b.Groups))
	}
	if got := b.Groups[2].Label; got != "Finale" {
		t.Fatalf("expected label Finale, got %q", got)
	}
	if m.cursorID != b.Groups[2].ID {
		t.Fatalf("expected cursor on new group")
	}
}

func TestApp_InputEscKeepsValue(t *testing.T) {
	m, ed := newTestModel(t)
	m = m.selectID("D1")
	m = press(t, m, runes("e"))
	m = typeText(t, m, "!!!")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	d, _ := ed.Board().FindDialogue("D1")
	if d.Text != "hi" {
		t.Fatalf("expected text unchanged, got %q", d.Text)
	}
}

func TestApp_DeleteAsksFirst(t *testing.T) {
	m, ed := newTestModel(t)
	m = m.selectID("P1")
	m = press(t, m, runes("x"), runes("n"))
	if _, ok := ed.Board().FindPanel("P1"); !ok {
		t.Fatalf("expected P1 to survive a declined delete")
	}
	m = press(t, m, runes("x"), runes("y"))
	if _, ok := ed.Board().FindPanel("P1"); ok {
		t.Fatalf("expected P1 deleted")
	}
	if _, ok := ed.Board().FindDialogue("D1"); ok {
		t.Fatalf("expected D1 deleted with its panel")
	}
	if m.cursorID != "P2" {
		t.Fatalf("expected cursor on P2, got %q", m.cursorID)
	}
}

func TestApp_SpeakerLinksRosterMatch(t *testing.T) {
	r := &roster.Roster{Characters: []model.Character{{ID: "c-ann", Name: "Annika"}}}
	ed := editor.New(testBoard(), editor.Options{Roster: r})
	m := newAppModel(Options{Editor: ed, Roster: r}).selectID("D3")

	m = press(t, m, runes("s"))
	m = typeText(t, m, "annika")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	d, _ := ed.Board().FindDialogue("D3")
	if d.SpeakerRef != "c-ann" || d.Speaker != "Annika" {
		t.Fatalf("expected linked speaker, got %+v", d)
	}

	m = press(t, m, runes("s"))
	m.input.SetValue("Narrator")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	d, _ = ed.Board().FindDialogue("D3")
	if d.SpeakerRef != "" || d.Speaker != "Narrator" {
		t.Fatalf("expected free-text speaker, got %+v", d)
	}
}

func TestApp_CollapseHidesChildren(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if len(m.rows) != 2 {
		t.Fatalf("expected only group rows, got %d", len(m.rows))
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if len(m.rows) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(m.rows))
	}
}

func TestApp_StatusMessages(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, StatusMsg{Status: autosave.Failed, Err: errors.New("disk full")})
	if !strings.Contains(m.View(), "disk full") {
		t.Fatalf("expected failure in view:\n%s", m.View())
	}
	m = press(t, m, StatusMsg{Status: autosave.Saved})
	if strings.Contains(m.View(), "disk full") {
		t.Fatalf("expected failure cleared")
	}
}

func TestApp_ViewShowsBoard(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	v := m.View()
	for _, want := range []string{"e1", "Cold open", "Panel 1", "Panel 2", "Ann", "hi", "Act one"} {
		if !strings.Contains(v, want) {
			t.Fatalf("expected %q in view:\n%s", want, v)
		}
	}
}

func TestStatusSink_KeepsNewest(t *testing.T) {
	s := NewStatusSink()
	for i := 0; i < cap(s.ch)+5; i++ {
		s.Report(autosave.Saving, nil)
	}
	s.Report(autosave.Saved, nil)
	var last StatusMsg
	for len(s.ch) > 0 {
		last = (<-s.ch)
	}
	if last.Status != autosave.Saved {
		t.Fatalf("expected newest status delivered, got %v", last.Status)
	}
	var nilSink *StatusSink
	if nilSink.wait() != nil {
		t.Fatalf("expected nil cmd for nil sink")
	}
}
