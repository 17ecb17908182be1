// Package speech speaks drill snippets through Azure TTS and oto, caches
// the synthesized audio, and plays the wrong-answer buzz.
package speech

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
	"github.com/hammamikhairi/phrasedrill/internal/logger"
)

var _ domain.Speaker = (*Voice)(nil)

// Synthesizer turns text into WAV audio. *AzureClient implements it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Sink plays WAV audio until done, stopped, or cancelled. *Player
// implements it.
type Sink interface {
	Play(ctx context.Context, wav []byte) error
	Stop()
}

// VoiceOption configures a Voice.
type VoiceOption func(*Voice)

// WithPrefetchLimit caps concurrent synthesis requests during Prefetch.
func WithPrefetchLimit(n int) VoiceOption {
	return func(v *Voice) {
		v.prefetchLimit = n
	}
}

// Voice speaks one snippet at a time: synthesize (through the cache), then
// play. It holds no queue; the caller waits for Speak before asking again.
type Voice struct {
	tts           Synthesizer
	sink          Sink
	cache         *AudioCache
	log           *logger.Logger
	prefetchLimit int
}

// NewVoice creates a speaker over the given synthesizer, sink and cache.
func NewVoice(tts Synthesizer, sink Sink, cache *AudioCache, log *logger.Logger, opts ...VoiceOption) *Voice {
	v := &Voice{
		tts:           tts,
		sink:          sink,
		cache:         cache,
		log:           log,
		prefetchLimit: 4,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Speak synthesizes and plays text. Returns once playback has finished,
// ctx is cancelled, or Cancel is called.
func (v *Voice) Speak(ctx context.Context, text string) error {
	audio, err := v.synthesize(ctx, text)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := v.sink.Play(ctx, audio); err != nil {
		return fmt.Errorf("playing %q: %w", text, err)
	}
	return nil
}

// Cancel stops whatever is playing. Safe to call when idle.
func (v *Voice) Cancel() {
	v.sink.Stop()
}

// Prefetch synthesizes texts that are not cached yet in the background.
// Non-blocking; failures are logged and the text is synthesized again when
// spoken.
func (v *Voice) Prefetch(ctx context.Context, texts ...string) {
	var missing []string
	seen := make(map[string]bool, len(texts))
	for _, t := range texts {
		if t == "" || seen[t] || v.cache.Has(t) {
			continue
		}
		seen[t] = true
		missing = append(missing, t)
	}
	if len(missing) == 0 {
		return
	}
	v.log.Debug("prefetching %d snippets", len(missing))

	go func() {
		var g errgroup.Group
		g.SetLimit(v.prefetchLimit)
		for _, t := range missing {
			g.Go(func() error {
				if _, err := v.synthesize(ctx, t); err != nil {
					v.log.Warn("prefetch %q: %v", t, err)
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// Cache returns the audio cache. Used for stats on shutdown.
func (v *Voice) Cache() *AudioCache { return v.cache }

func (v *Voice) synthesize(ctx context.Context, text string) ([]byte, error) {
	if audio, ok := v.cache.Get(text); ok {
		return audio, nil
	}
	audio, err := v.tts.Synthesize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("synthesizing %q: %w", text, err)
	}
	v.cache.Put(text, audio)
	return audio, nil
}
