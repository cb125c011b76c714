package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"taskdeck/internal/config"
)

type keyMap struct {
	Quit           key.Binding
	Add            key.Binding
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Toggle         key.Binding
	Delete         key.Binding
	Edit           key.Binding
	Confirm        key.Binding
	Cancel         key.Binding
	SortCycle      key.Binding
	SortDirection  key.Binding
	SwitchView     key.Binding
	NextCategory   key.Binding
	AddCategory    key.Binding
	EditCategory   key.Binding
	ToggleVisible  key.Binding
	ToggleAllShown key.Binding
	PrevMonth      key.Binding
	NextMonth      key.Binding
	MoveHere       key.Binding
	NextDayTask    key.Binding
	PrevDayTask    key.Binding
	Theme          key.Binding
}

func bind(k, desc string, extra ...string) key.Binding {
	label := k
	if k == " " {
		label = "space"
	}
	return key.NewBinding(
		key.WithKeys(append([]string{k}, extra...)...),
		key.WithHelp(label, desc),
	)
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:           bind(k.Quit, "quit", "ctrl+c"),
		Add:            bind(k.Add, "add"),
		Up:             bind(k.Up, "up", "up"),
		Down:           bind(k.Down, "down", "down"),
		Left:           bind(k.Left, "left", "left"),
		Right:          bind(k.Right, "right", "right"),
		Toggle:         bind(k.Toggle, "toggle"),
		Delete:         bind(k.Delete, "delete"),
		Edit:           bind(k.Edit, "edit"),
		Confirm:        bind(k.Confirm, "confirm"),
		Cancel:         bind(k.Cancel, "cancel"),
		SortCycle:      bind(k.SortCycle, "sort"),
		SortDirection:  bind(k.SortDirection, "reverse"),
		SwitchView:     bind(k.SwitchView, "list/calendar"),
		NextCategory:   bind(k.NextCategory, "category"),
		AddCategory:    bind(k.AddCategory, "new category"),
		EditCategory:   bind(k.EditCategory, "edit category"),
		ToggleVisible:  bind(k.ToggleVisible, "show/hide"),
		ToggleAllShown: bind(k.ToggleAllShown, "show all"),
		PrevMonth:      bind(k.PrevMonth, "prev month"),
		NextMonth:      bind(k.NextMonth, "next month"),
		MoveHere:       bind(k.MoveHere, "pick up/drop"),
		NextDayTask:    bind(k.NextDayTask, "next task"),
		PrevDayTask:    bind(k.PrevDayTask, "prev task"),
		Theme:          bind(k.Theme, "theme"),
	}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Add, k.Edit, k.Toggle, k.Delete, k.SortCycle, k.SortDirection,
		k.NextCategory, k.AddCategory, k.EditCategory, k.SwitchView, k.Theme, k.Quit}
}

func (k keyMap) calendarHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.PrevMonth, k.NextMonth, k.NextDayTask,
		k.Add, k.Edit, k.Toggle, k.Delete, k.MoveHere,
		k.NextCategory, k.ToggleVisible, k.ToggleAllShown, k.SwitchView, k.Theme, k.Quit}
}
