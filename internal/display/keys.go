package display

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
)

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous option"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next option"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "repeat"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "repeat"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Right, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Left, k.Right}, {k.Quit}}
}

// drillKey maps a key press to a drill key. KeyUnknown for anything else.
func (k keyMap) drillKey(msg tea.KeyMsg) domain.Key {
	switch {
	case key.Matches(msg, k.Up):
		return domain.KeyUp
	case key.Matches(msg, k.Down):
		return domain.KeyDown
	case key.Matches(msg, k.Left):
		return domain.KeyLeft
	case key.Matches(msg, k.Right):
		return domain.KeyRight
	default:
		return domain.KeyUnknown
	}
}

func (k keyMap) quits(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Quit)
}
