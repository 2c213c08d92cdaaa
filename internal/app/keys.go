package app

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	PlayPause   key.Binding
	Back        key.Binding
	Forward     key.Binding
	SliderBack  key.Binding
	SliderFwd   key.Binding
	Oldest      key.Binding
	Newest      key.Binding
	Up          key.Binding
	Down        key.Binding
	AddRow      key.Binding
	RemoveRow   key.Binding
	PickX       key.Binding
	PickY       key.Binding
	CycleColor  key.Binding
	CustomColor key.Binding
	Refresh     key.Binding
	AutoFit     key.Binding
	Help        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
		PlayPause:   key.NewBinding(key.WithKeys(" ", "space", "p", "P"), key.WithHelp("space", "play/pause")),
		Back:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "drag back")),
		Forward:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "drag forward")),
		SliderBack:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "slider back")),
		SliderFwd:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "slider forward")),
		Oldest:      key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "oldest")),
		Newest:      key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "newest")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev row")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next row")),
		AddRow:      key.NewBinding(key.WithKeys("a", "A"), key.WithHelp("a", "add row")),
		RemoveRow:   key.NewBinding(key.WithKeys("d", "D"), key.WithHelp("d", "remove row")),
		PickX:       key.NewBinding(key.WithKeys("x", "X"), key.WithHelp("x", "X topic")),
		PickY:       key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "Y topic")),
		CycleColor:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next color")),
		CustomColor: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "custom color")),
		Refresh:     key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "refresh topics")),
		AutoFit:     key.NewBinding(key.WithKeys("f", "F"), key.WithHelp("f", "auto-fit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Back, k.Forward, k.PickX, k.PickY, k.AddRow, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Back, k.Forward, k.SliderBack, k.SliderFwd, k.Oldest, k.Newest},
		{k.Up, k.Down, k.AddRow, k.RemoveRow, k.PickX, k.PickY},
		{k.CycleColor, k.CustomColor, k.Refresh, k.AutoFit, k.Help, k.Quit},
	}
}
