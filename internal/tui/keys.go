package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Collapse key.Binding
	Grab     key.Binding
	Drop     key.Binding
	Cancel   key.Binding

	AddGroup    key.Binding
	AddPanel    key.Binding
	AddDialogue key.Binding
	Edit        key.Binding
	Speaker     key.Binding
	Note        key.Binding
	Class       key.Binding
	Tag         key.Binding
	Delete      key.Binding

	Save key.Binding
	Help key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Collapse: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "fold")),
		Grab:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab")),
		Drop:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "drop")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		AddGroup:    key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "add group")),
		AddPanel:    key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "add panel")),
		AddDialogue: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "add dialogue")),
		Edit:        key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Speaker:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "speaker")),
		Note:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "note")),
		Class:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "classification")),
		Tag:         key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle tag")),
		Delete:      key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),

		Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) browseHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Grab, k.Edit, k.AddGroup, k.AddPanel, k.AddDialogue, k.Delete, k.Save, k.Quit}
}

func (k keyMap) dragHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Drop, k.Cancel}
}
