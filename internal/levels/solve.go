package levels

import (
	"strings"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
)

// Solvable reports whether some choice of one option per column joins (with
// single spaces) to the goal. Runs over goal offsets, not over every
// combination, so wide levels stay cheap.
func Solvable(lvl domain.Level) bool {
	if len(lvl.Options) == 0 {
		return false
	}
	goal := lvl.Goal
	// reach holds the goal offsets where the next column can start.
	reach := map[int]bool{0: true}
	for i, col := range lvl.Options {
		last := i == len(lvl.Options)-1
		next := make(map[int]bool)
		for pos := range reach {
			for _, opt := range col {
				if !strings.HasPrefix(goal[pos:], opt) {
					continue
				}
				end := pos + len(opt)
				switch {
				case last && end == len(goal):
					return true
				case !last && strings.HasPrefix(goal[end:], " "):
					next[end+1] = true
				}
			}
		}
		if len(next) == 0 {
			return false
		}
		reach = next
	}
	return false
}
