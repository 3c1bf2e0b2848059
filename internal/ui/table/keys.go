package table

import "charm.land/bubbles/v2/key"

// KeyMap holds the key bindings of Model.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	Top          key.Binding
	Bottom       key.Binding
	NextColumn   key.Binding
	PrevColumn   key.Binding
	Shrink       key.Binding
	Grow         key.Binding
	ToggleHeader key.Binding
	Reset        key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "scroll left")),
		Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "scroll right")),
		PageUp:       key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown", "space"), key.WithHelp("pgdn", "page down")),
		Top:          key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g/home", "top")),
		Bottom:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G/end", "bottom")),
		NextColumn:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next column")),
		PrevColumn:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous column")),
		Shrink:       key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "narrower")),
		Grow:         key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "wider")),
		ToggleHeader: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "focus header")),
		Reset:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset widths")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextColumn, k.Shrink, k.Grow, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Left, k.Right, k.NextColumn, k.PrevColumn},
		{k.Shrink, k.Grow, k.ToggleHeader, k.Reset},
		{k.Help, k.Quit},
	}
}
