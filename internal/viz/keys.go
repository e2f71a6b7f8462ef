package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	First    key.Binding
	Back     key.Binding
	Forward  key.Binding
	Last     key.Binding
	Indices  key.Binding
	Distance key.Binding
	Theme    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		First:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "<< first")),
		Back:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "< back")),
		Forward:  key.NewBinding(key.WithKeys("right", "l", " "), key.WithHelp("→/l", "> forward")),
		Last:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", ">> last")),
		Indices:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "indices")),
		Distance: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "distance")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.First, k.Back, k.Forward, k.Last, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.First, k.Back, k.Forward, k.Last},
		{k.Indices, k.Distance, k.Theme},
		{k.Help, k.Quit},
	}
}

// navigation lists the bindings that move the cursor.
func (k keyMap) navigation() []key.Binding {
	return []key.Binding{k.First, k.Back, k.Forward, k.Last}
}
