package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up          key.Binding
	down        key.Binding
	enter       key.Binding
	esc         key.Binding
	quit        key.Binding
	lock        key.Binding
	reload      key.Binding
	copy        key.Binding
	copyUser    key.Binding
	copyWebsite key.Binding
	about       key.Binding
}

var keys = keyMap{
	up:          key.NewBinding(key.WithKeys("up", "k")),
	down:        key.NewBinding(key.WithKeys("down", "j")),
	enter:       key.NewBinding(key.WithKeys("enter")),
	esc:         key.NewBinding(key.WithKeys("esc")),
	quit:        key.NewBinding(key.WithKeys("q", "ctrl+c")),
	lock:        key.NewBinding(key.WithKeys("L", "ctrl+l")),
	reload:      key.NewBinding(key.WithKeys("r")),
	copy:        key.NewBinding(key.WithKeys("c")),
	copyUser:    key.NewBinding(key.WithKeys("u")),
	copyWebsite: key.NewBinding(key.WithKeys("w")),
	about:       key.NewBinding(key.WithKeys("?")),
}
