package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause       key.Binding
	VolumeUp    key.Binding
	VolumeDown  key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Reset       key.Binding
	Stats       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Pause:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		VolumeUp:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "volume up")),
		VolumeDown:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "volume down")),
		RotateLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "orbit left")),
		RotateRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "orbit right")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Reset:       key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset camera")),
		Stats:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.RotateLeft, k.RotateRight, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.VolumeUp, k.VolumeDown},
		{k.RotateLeft, k.RotateRight, k.ZoomIn, k.ZoomOut, k.Reset},
		{k.Stats, k.Help, k.Quit},
	}
}
