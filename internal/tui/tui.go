// Package tui is the interactive board editor.
package tui

import (
	"context"

	"nameboard/internal/autosave"
	"nameboard/internal/editor"
	"nameboard/internal/roster"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Editor *editor.Editor
	// Roster resolves typed speaker names; may be nil.
	Roster *roster.Roster
	// Status feeds autosave status changes to the status line; may be nil.
	Status *StatusSink
	Title  string
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// StatusSink hands autosave status changes to the program without blocking the caller.
// When the program falls behind, older statuses are dropped; the newest one always arrives.
type StatusSink struct {
	ch chan StatusMsg
}

func NewStatusSink() *StatusSink {
	return &StatusSink{ch: make(chan StatusMsg, 16)}
}

// Report matches autosave.Options.OnStatus.
func (s *StatusSink) Report(st autosave.Status, err error) {
	msg := StatusMsg{Status: st, Err: err}
	for {
		select {
		case s.ch <- msg:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

func (s *StatusSink) wait() tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg { return <-s.ch }
}
