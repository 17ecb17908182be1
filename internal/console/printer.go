package console

import (
	"fmt"
	"sync"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
	"github.com/hammamikhairi/phrasedrill/internal/logger"
)

// Compile-time interface check.
var _ domain.Renderer = (*Printer)(nil)

// ANSI escape codes for terminal formatting.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"
	red   = "\033[31m"
	green = "\033[32m"
	cyan  = "\033[36m"
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of fmt.Printf.
type PrintFunc func(format string, a ...any)

// Printer renders scenes as plain text lines ("[hola]  amigo"). Repeated
// identical scenes are printed once. Safe for concurrent use.
type Printer struct {
	log     *logger.Logger
	printFn PrintFunc

	mu     sync.Mutex
	last   string
	level  int
	misses int
}

// NewPrinter creates a line renderer. If printFn is nil, output goes to
// stdout with a trailing newline.
func NewPrinter(log *logger.Logger, printFn PrintFunc) *Printer {
	if printFn == nil {
		printFn = func(format string, a ...any) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &Printer{log: log, printFn: printFn}
}

// Render prints scene if it differs from the last one printed.
func (p *Printer) Render(scene domain.Scene) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if scene.End {
		if p.last != "end" {
			p.printFn("%s%s¡Muy bien! All %d levels done.%s", green, bold, scene.Levels, reset)
			p.last = "end"
		}
		return
	}

	if scene.Level != p.level {
		p.level = scene.Level
		p.misses = 0
		p.last = ""
		p.printFn("%s%s── Level %d/%d %s%s", cyan, bold, scene.Level, scene.Levels, scene.Title, reset)
		if scene.Hint != "" {
			p.printFn("%s   %s%s", dim, scene.Hint, reset)
		}
	}
	if scene.Misses != p.misses {
		p.misses = scene.Misses
		p.printFn("%s✗ not quite (%d missed)%s", red, scene.Misses, reset)
	}

	line := scene.String()
	if line == p.last {
		return
	}
	p.last = line
	p.log.Debug("scene: %s", line)
	p.printFn("   %s", line)
}

// Say prints a spoken snippet. Used when speech output is off.
func (p *Printer) Say(text string) {
	p.printFn("%s » %s%s", dim, text, reset)
}
