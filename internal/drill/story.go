package drill

import (
	"slices"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
)

// Snippet is what the driver should do next.
type Snippet struct {
	// Text is the option to announce. Empty when End is set.
	Text string
	// Missed is set when the phrase was wrong at the end of a pass. The
	// failure indicator must play before Text is announced.
	Missed bool
	// End is set once every level has been answered.
	End bool
}

var endOfGame = Snippet{End: true}

// Story sequences levels. It keeps an index into an immutable level list
// and the play state of the active level; a level is discarded by moving
// the index past it. Levels are never replayed.
//
// Story is not safe for concurrent use. The driver owns it.
type Story struct {
	levels []domain.Level
	next   int         // index of the next level to activate
	active *LevelState // nil once exhausted
	misses int         // wrong passes on the active level
}

// New creates a story over the given levels and activates the first one.
// Every level is validated up front; an empty list yields a story that is
// already exhausted.
func New(levels []domain.Level) (*Story, error) {
	if err := domain.ValidateStory(levels); err != nil {
		return nil, err
	}
	s := &Story{levels: slices.Clone(levels)}
	s.activateNext()
	return s, nil
}

// activateNext pulls the next level off the list. Returns false when none
// remain, leaving the story exhausted.
func (s *Story) activateNext() bool {
	s.misses = 0
	if s.next >= len(s.levels) {
		s.active = nil
		return false
	}
	s.active = newLevelState(s.levels[s.next])
	s.next++
	return true
}

// NextSnippet advances the active level and returns what to announce.
//
// When focus wraps past the last column the phrase is checked: a correct
// phrase discards the level and the next one starts at its first column
// (or the story ends); a wrong one keeps the level, restarts focus at the
// first column and sets Missed.
func (s *Story) NextSnippet() Snippet {
	if s.active == nil {
		return endOfGame
	}
	text, wrapped := s.active.AdvanceFocus()
	if !wrapped {
		return Snippet{Text: text}
	}
	if !s.active.IsComplete() {
		s.misses++
		return Snippet{Text: text, Missed: true}
	}
	if !s.activateNext() {
		return endOfGame
	}
	text, _ = s.active.AdvanceFocus()
	return Snippet{Text: text}
}

// HandleInput applies a key to the active level. Up and Down cycle the
// focused column, Left and Right re-announce it unchanged. Returns true
// when the input was applied and the current announcement should be
// cancelled.
func (s *Story) HandleInput(key domain.Key) bool {
	if s.active == nil {
		return false
	}
	var dir Direction
	switch key {
	case domain.KeyUp:
		dir = Decrease
	case domain.KeyDown:
		dir = Increase
	case domain.KeyLeft, domain.KeyRight:
		dir = Hold
	default:
		return false
	}
	return s.active.CycleOption(dir)
}

// IsCorrect reports whether the active level's phrase matches its goal.
// False once the story is exhausted.
func (s *Story) IsCorrect() bool {
	return s.active != nil && s.active.IsComplete()
}

// Done reports whether every level has been answered.
func (s *Story) Done() bool { return s.active == nil }

// Position returns the 1-based number of the active level and the level
// count. Once exhausted the level number equals the count.
func (s *Story) Position() (level, total int) {
	return s.next, len(s.levels)
}

// Options returns every option of the active level, nil when exhausted.
func (s *Story) Options() []string {
	if s.active == nil {
		return nil
	}
	return s.active.Options()
}

// Scene returns the presentation snapshot of the story.
func (s *Story) Scene() domain.Scene {
	level, total := s.Position()
	if s.active == nil {
		return domain.Scene{End: true, Level: level, Levels: total}
	}
	def := s.levels[s.next-1]
	return domain.Scene{
		Cells:  s.active.Snapshot(),
		Title:  def.Title,
		Hint:   def.Hint,
		Level:  level,
		Levels: total,
		Misses: s.misses,
	}
}
