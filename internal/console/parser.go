// Package console provides the line-mode front end: typed commands become
// drill keys and scenes are printed as plain text lines.
package console

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
	"github.com/hammamikhairi/phrasedrill/internal/logger"
)

// KeyParser matches typed words to drill keys using keywords.
type KeyParser struct {
	log      *logger.Logger
	patterns []patternRule
	quit     *regexp.Regexp
}

type patternRule struct {
	regex *regexp.Regexp
	key   domain.Key
}

// NewKeyParser creates a keyword-based key parser.
func NewKeyParser(log *logger.Logger) *KeyParser {
	return &KeyParser{
		log: log,
		patterns: []patternRule{
			{regexp.MustCompile(`(?i)^(up|u|k|prev|previous|\+)$`), domain.KeyUp},
			{regexp.MustCompile(`(?i)^(down|d|j|next|n|-)$`), domain.KeyDown},
			{regexp.MustCompile(`(?i)^(left|h)$`), domain.KeyLeft},
			{regexp.MustCompile(`(?i)^(right|l|r|repeat|again)$`), domain.KeyRight},
		},
		quit: regexp.MustCompile(`(?i)^(quit|exit|stop|q)$`),
	}
}

// Parse converts one word to a key. Full key names ("ArrowUp") are
// accepted too. KeyUnknown when nothing matches.
func (p *KeyParser) Parse(word string) domain.Key {
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return domain.KeyUnknown
	}
	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			return rule.key
		}
	}
	k := domain.KeyFromString(trimmed)
	if k == domain.KeyUnknown {
		p.log.Debug("no key for %q", trimmed)
	}
	return k
}

// IsQuit reports whether word asks to leave the drill.
func (p *KeyParser) IsQuit(word string) bool {
	return p.quit.MatchString(strings.TrimSpace(word))
}

// Feed reads lines from r until EOF, a quit word, or ctx is done. Every
// word on a line is parsed, so "d d" presses Down twice. Unknown words are
// dropped. keys is closed when reading stops; quit is closed only when
// the learner asked to leave or input ended.
func (p *KeyParser) Feed(ctx context.Context, r io.Reader) (keys <-chan domain.Key, quit <-chan struct{}) {
	keyCh := make(chan domain.Key, 16)
	quitCh := make(chan struct{})

	go func() {
		defer close(keyCh)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			for _, word := range strings.Fields(scanner.Text()) {
				if p.IsQuit(word) {
					close(quitCh)
					return
				}
				k := p.Parse(word)
				if k == domain.KeyUnknown {
					continue
				}
				select {
				case keyCh <- k:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			p.log.Warn("reading input: %v", err)
		}
		close(quitCh)
	}()

	return keyCh, quitCh
}
