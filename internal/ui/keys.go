package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Hotkey   key.Binding
	Hide     key.Binding
	Quit     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Home     key.Binding
	End      key.Binding
	Activate key.Binding
}

func newKeyMap(hotkey string) keyMap {
	return keyMap{
		Hotkey: key.NewBinding(
			key.WithKeys(hotkey),
			key.WithHelp(hotkey, "menu"),
		),
		Hide: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "hide"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down", "j"),
			key.WithHelp("tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up", "k"),
			key.WithHelp("shift+tab", "prev"),
		),
		Home: key.NewBinding(key.WithKeys("home", "g")),
		End:  key.NewBinding(key.WithKeys("end", "G")),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "activate"),
		),
	}
}

// hints lists the bindings shown in the footer.
func (k keyMap) hints() []key.Binding {
	return []key.Binding{k.Hotkey, k.Next, k.Activate, k.Hide, k.Quit}
}
