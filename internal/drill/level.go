// Package drill implements the phrase drill state machine: per-level
// selection cycling and the story controller that sequences levels.
package drill

import (
	"slices"
	"strings"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
)

// Direction says how an input moves the focused column's selection.
type Direction int

const (
	// Hold keeps the selection and only asks for a re-announcement.
	Hold Direction = iota
	// Increase moves to the next option, wrapping to the first.
	Increase
	// Decrease moves to the previous option, wrapping to the last.
	Decrease
)

// String returns a human-readable direction.
func (d Direction) String() string {
	switch d {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return "hold"
	}
}

// phase records whether the next announcement repeats the focused column.
type phase int

const (
	phaseIdle phase = iota
	phaseInterrupted
)

type column struct {
	selected int
	options  []string
}

func (c column) text() string { return c.options[c.selected] }

// LevelState is one level in play: the columns with their selections, the
// focused column, and the interruption phase.
//
// Focus starts at -1 (nothing announced yet) and, once AdvanceFocus has
// been called, stays within [0, len(columns)).
type LevelState struct {
	goal    string
	columns []column
	focus   int
	phase   phase
}

// NewLevelState builds the play state for a level. Malformed levels are
// rejected with domain.ErrNoColumns or domain.ErrEmptyColumn.
func NewLevelState(def domain.Level) (*LevelState, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return newLevelState(def), nil
}

// newLevelState assumes def has been validated.
func newLevelState(def domain.Level) *LevelState {
	cols := make([]column, len(def.Options))
	for i, opts := range def.Options {
		cols[i] = column{options: slices.Clone(opts)}
	}
	return &LevelState{goal: def.Goal, columns: cols, focus: -1}
}

// AdvanceFocus moves focus to the next column and returns its selected
// option. Moving past the last column wraps to the first and reports
// wrapped=true.
//
// Right after CycleOption the focus does not move: the phase goes back to
// idle and the option at the current column is returned again.
func (l *LevelState) AdvanceFocus() (text string, wrapped bool) {
	if l.phase == phaseInterrupted {
		l.phase = phaseIdle
		return l.columns[l.focus].text(), false
	}
	l.focus++
	if l.focus >= len(l.columns) {
		l.focus = 0
		wrapped = true
	}
	return l.columns[l.focus].text(), wrapped
}

// CycleOption changes the focused column's selection and marks the level
// interrupted so the next AdvanceFocus re-announces it. Returns false, and
// changes nothing, before the first AdvanceFocus.
func (l *LevelState) CycleOption(dir Direction) bool {
	if l.focus < 0 {
		return false
	}
	c := &l.columns[l.focus]
	n := len(c.options)
	switch dir {
	case Increase:
		c.selected = (c.selected + 1) % n
	case Decrease:
		c.selected = (c.selected - 1 + n) % n
	}
	l.phase = phaseInterrupted
	return true
}

// Phrase returns the selected options joined with single spaces.
func (l *LevelState) Phrase() string {
	parts := make([]string, len(l.columns))
	for i, c := range l.columns {
		parts[i] = c.text()
	}
	return strings.Join(parts, " ")
}

// IsComplete reports whether the selected phrase equals the goal.
func (l *LevelState) IsComplete() bool {
	return l.Phrase() == l.goal
}

// Focus returns the focused column index, -1 before the first announcement.
func (l *LevelState) Focus() int { return l.focus }

// Interrupted reports whether the next AdvanceFocus will re-announce.
func (l *LevelState) Interrupted() bool { return l.phase == phaseInterrupted }

// Snapshot returns one cell per column with its selected text and whether
// it holds focus.
func (l *LevelState) Snapshot() []domain.Cell {
	cells := make([]domain.Cell, len(l.columns))
	for i, c := range l.columns {
		cells[i] = domain.Cell{Text: c.text(), Focused: i == l.focus}
	}
	return cells
}

// Options returns every option of every column, in column order.
func (l *LevelState) Options() []string {
	var out []string
	for _, c := range l.columns {
		out = append(out, c.options...)
	}
	return out
}
