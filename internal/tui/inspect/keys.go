package inspect

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the inspect session.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Home      key.Binding
	End       key.Binding
	Select    key.Binding
	SelectAll key.Binding
	ClearSel  key.Binding
	Kill      key.Binding
	ForceKill key.Binding
	CycleView key.Binding
	CycleSort key.Binding
	Reverse   key.Binding
	Refresh   key.Binding
	Memory    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		ClearSel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear selection"),
		),
		Kill: key.NewBinding(
			key.WithKeys("x", "d"),
			key.WithHelp("x", "kill (SIGTERM)"),
		),
		ForceKill: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "force kill (SIGKILL)"),
		),
		CycleView: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle view"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort"),
		),
		Reverse: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reverse sort"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Memory: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "memory panel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns bindings for the mini help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Kill, k.CycleView, k.CycleSort, k.Help, k.Quit}
}

// FullHelp returns bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Home, k.End},
		{k.Select, k.SelectAll, k.ClearSel},
		{k.Kill, k.ForceKill, k.Refresh},
		{k.CycleView, k.CycleSort, k.Reverse, k.Memory},
		{k.Help, k.Quit},
	}
}
