// Package engine drives a drill story: it asks the story for the next
// snippet, announces it, and feeds learner input back into the story.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
	"github.com/hammamikhairi/phrasedrill/internal/drill"
	"github.com/hammamikhairi/phrasedrill/internal/logger"
)

// Option configures the engine.
type Option func(*Engine)

// WithGap sets a pause after each completed announcement before the next
// snippet is requested. Input during the pause interrupts it like speech.
func WithGap(d time.Duration) Option {
	return func(e *Engine) {
		e.gap = d
	}
}

// WithRunID overrides the generated run ID used in logs.
func WithRunID(id string) Option {
	return func(e *Engine) {
		e.runID = id
	}
}

// Prefetcher is an optional interface Speaker implementations can satisfy
// to prepare audio for text that will be spoken soon. The engine calls it
// with every option of a level when that level becomes active.
type Prefetcher interface {
	Prefetch(ctx context.Context, texts ...string)
}

// Engine is the single owner of a Story. Run is its only thread of
// control: the story is never touched from the speech goroutines.
type Engine struct {
	story    *drill.Story
	speaker  domain.Speaker
	buzzer   domain.Buzzer
	renderer domain.Renderer
	log      *logger.Logger
	gap      time.Duration
	runID    string
	seq      int
}

// New creates an engine for the given story and collaborators.
func New(story *drill.Story, speaker domain.Speaker, buzzer domain.Buzzer, renderer domain.Renderer, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		story:    story,
		speaker:  speaker,
		buzzer:   buzzer,
		renderer: renderer,
		log:      log,
		runID:    generateID(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// operation is one in-flight announcement: the optional failure indicator
// followed by the snippet. done receives exactly one value.
type operation struct {
	id     int
	cancel context.CancelFunc
	done   chan error
}

// Run plays the story until every level is answered or ctx is cancelled.
// Keys are read from keys; a closed channel just stops input.
//
// At most one operation is in flight. A key that changes the story cancels
// the operation and waits for it to finish before the next snippet is
// requested.
func (e *Engine) Run(ctx context.Context, keys <-chan domain.Key) error {
	level, total := e.story.Position()
	e.log.Info("run %s started (%d levels)", e.runID, total)
	e.render()
	e.prefetch(ctx)

	var op *operation
	for {
		if op == nil {
			sn := e.story.NextSnippet()
			e.render()
			if sn.End {
				e.log.Info("run %s finished: all %d levels answered", e.runID, total)
				return nil
			}
			if l, _ := e.story.Position(); l != level {
				level = l
				e.log.Info("run %s: level %d/%d", e.runID, level, total)
				e.prefetch(ctx)
			}
			op = e.start(ctx, sn)
		}

		select {
		case <-ctx.Done():
			e.interrupt(op)
			return ctx.Err()

		case err := <-op.done:
			op.cancel()
			e.settle(op, err)
			op = nil

		case key, ok := <-keys:
			if !ok {
				e.log.Debug("input closed")
				keys = nil
				continue
			}
			if !e.story.HandleInput(key) {
				e.log.Debug("ignored key %s", key)
				continue
			}
			e.log.Debug("key %s: %s", key, e.story.Scene())
			e.interrupt(op)
			op = nil
			e.render()
		}
	}
}

// start launches the announcement of sn on its own goroutine.
func (e *Engine) start(ctx context.Context, sn drill.Snippet) *operation {
	e.seq++
	opCtx, cancel := context.WithCancel(ctx)
	op := &operation{
		id:     e.seq,
		cancel: cancel,
		done:   make(chan error, 1),
	}
	e.log.Debug("op %d: announcing %q (missed=%v)", op.id, sn.Text, sn.Missed)
	go func() {
		op.done <- e.announce(opCtx, sn)
	}()
	return op
}

// announce plays the failure indicator when the pass was wrong, then
// speaks the snippet, then waits out the gap.
func (e *Engine) announce(ctx context.Context, sn drill.Snippet) error {
	if sn.Missed {
		if err := e.buzzer.Buzz(ctx); err != nil && ctx.Err() == nil {
			e.log.Warn("failure indicator: %v", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := e.speaker.Speak(ctx, sn.Text); err != nil {
		return fmt.Errorf("speaking %q: %w", sn.Text, err)
	}
	if e.gap > 0 {
		t := time.NewTimer(e.gap)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// interrupt cancels op and blocks until its goroutine has returned.
func (e *Engine) interrupt(op *operation) {
	if op == nil {
		return
	}
	op.cancel()
	e.speaker.Cancel()
	err := <-op.done
	e.log.Debug("op %d: cancelled (%v)", op.id, err)
}

// settle logs how an operation ended. Failures are treated like a normal
// completion; the next snippet is requested either way.
func (e *Engine) settle(op *operation, err error) {
	switch {
	case err == nil:
		e.log.Debug("op %d: done", op.id)
	case errors.Is(err, domain.ErrInterrupted), errors.Is(err, context.Canceled):
		e.log.Debug("op %d: interrupted", op.id)
	default:
		e.log.Error("op %d: %v", op.id, err)
	}
}

func (e *Engine) render() {
	e.renderer.Render(e.story.Scene())
}

func (e *Engine) prefetch(ctx context.Context) {
	p, ok := e.speaker.(Prefetcher)
	if !ok {
		return
	}
	if opts := e.story.Options(); len(opts) > 0 {
		p.Prefetch(ctx, opts...)
	}
}
