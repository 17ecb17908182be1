package speech

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
	"github.com/hammamikhairi/phrasedrill/internal/logger"
)

var (
	_ domain.Speaker = (*Silent)(nil)
	_ domain.Buzzer  = (*Silent)(nil)
)

// Silent stands in for speech when TTS is unavailable. It "speaks" by
// waiting roughly as long as reading the text takes, so the drill keeps
// its pace, and reports each snippet through an optional callback.
type Silent struct {
	log     *logger.Logger
	base    time.Duration
	perRune time.Duration
	onSay   func(text string)

	mu   sync.Mutex
	stop chan struct{}
}

// SilentOption configures a Silent speaker.
type SilentOption func(*Silent)

// WithPacing sets the fixed and per-character delays.
func WithPacing(base, perRune time.Duration) SilentOption {
	return func(s *Silent) {
		s.base = base
		s.perRune = perRune
	}
}

// WithSayHook is called with every snippet before the delay starts.
func WithSayHook(fn func(text string)) SilentOption {
	return func(s *Silent) {
		s.onSay = fn
	}
}

// NewSilent creates a silent speaker.
func NewSilent(log *logger.Logger, opts ...SilentOption) *Silent {
	s := &Silent{
		log:     log,
		base:    400 * time.Millisecond,
		perRune: 60 * time.Millisecond,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Speak waits for the reading time of text.
func (s *Silent) Speak(ctx context.Context, text string) error {
	s.log.Debug("would say %q", text)
	if s.onSay != nil {
		s.onSay(text)
	}
	return s.wait(ctx, s.base+time.Duration(utf8.RuneCountInString(text))*s.perRune)
}

// Buzz waits as long as the buzzer sound would play.
func (s *Silent) Buzz(ctx context.Context) error {
	s.log.Debug("would buzz")
	var d time.Duration
	for _, t := range wrongTones {
		d += t.dur
	}
	return s.wait(ctx, d)
}

// Cancel ends the current wait early.
func (s *Silent) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	close(s.stop)
	s.stop = make(chan struct{})
}

func (s *Silent) wait(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	stop := s.stop
	s.mu.Unlock()

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-stop:
		return domain.ErrInterrupted
	case <-ctx.Done():
		return ctx.Err()
	}
}
