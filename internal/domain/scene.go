package domain

import "strings"

// Cell is one column as the learner sees it.
type Cell struct {
	Text    string
	Focused bool
}

// Scene is the presentation snapshot handed to renderers. When End is set
// the story is exhausted and Cells is empty.
type Scene struct {
	Cells  []Cell
	End    bool
	Title  string
	Hint   string
	Level  int // 1-based position of the active level
	Levels int
	Misses int // wrong passes on the active level
}

// String renders the scene on one line, with the focused column in
// brackets: "[yo]  quiero   agua".
func (s Scene) String() string {
	if s.End {
		return "end of game"
	}
	var b strings.Builder
	for _, c := range s.Cells {
		if c.Focused {
			b.WriteString("[" + c.Text + "] ")
		} else {
			b.WriteString(" " + c.Text + "  ")
		}
	}
	return strings.TrimRight(b.String(), " ")
}
