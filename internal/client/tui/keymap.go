package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines keybindings for the contact browser.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Search    key.Binding
	Sort      key.Binding
	Filter    key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Block     key.Binding
	Favourite key.Binding
	Quit      key.Binding
	Help      key.Binding
	Cancel    key.Binding
	Confirm   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Search, k.Sort, k.Filter, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Search, k.Sort, k.Filter},
		{k.Add, k.Edit, k.Delete, k.Block, k.Favourite},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
	Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Block:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "block/unblock")),
	Favourite: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "favourite")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
}
