// Package domain defines the core types and interfaces for the phrase drill.
// All other packages depend on domain; domain depends on nothing.
package domain

import "fmt"

// Level is one puzzle unit: ordered option columns plus the phrase the
// learner has to build from them.
type Level struct {
	Title   string     `yaml:"title,omitempty" json:"title,omitempty"`
	Options [][]string `yaml:"options" json:"options"`
	Goal    string     `yaml:"goal" json:"goal"`
	Hint    string     `yaml:"hint,omitempty" json:"hint,omitempty"` // shown to the learner, e.g. a translation
}

// Validate reports whether the level can be played. Every level needs at
// least one column and every column at least one option.
func (l Level) Validate() error {
	if len(l.Options) == 0 {
		return ErrNoColumns
	}
	for i, col := range l.Options {
		if len(col) == 0 {
			return fmt.Errorf("column %d: %w", i+1, ErrEmptyColumn)
		}
	}
	return nil
}

// ValidateStory validates every level, tagging errors with the 1-based
// level position.
func ValidateStory(levels []Level) error {
	for i, lvl := range levels {
		if err := lvl.Validate(); err != nil {
			return fmt.Errorf("level %d: %w", i+1, err)
		}
	}
	return nil
}
