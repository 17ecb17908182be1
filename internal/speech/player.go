package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
	"github.com/hammamikhairi/phrasedrill/internal/logger"
)

// Player handles audio playback of WAV/PCM data via oto. One sound plays at
// a time; callers serialize.
type Player struct {
	ctx     *oto.Context
	log     *logger.Logger
	mu      sync.Mutex
	active  *oto.Player // currently playing, nil when idle
	stopped bool        // set by Stop for the active sound
}

// NewPlayer creates an audio player. Initializes the system audio context.
// Returns an error if the audio device is unavailable. oto allows a single
// context per process, so create one Player and share it.
func NewPlayer(log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug("audio player initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &Player{ctx: ctx, log: log}, nil
}

// Play plays WAV audio data. Blocks until playback finishes, ctx is
// cancelled, or Stop is called. Returns domain.ErrInterrupted when stopped
// and ctx.Err() when cancelled.
func (p *Player) Play(ctx context.Context, wavData []byte) error {
	pcm, err := extractPCM(wavData)
	if err != nil {
		return err
	}
	return p.PlayPCM(ctx, pcm)
}

// PlayPCM plays raw signed 16-bit little-endian PCM in the player's format.
func (p *Player) PlayPCM(ctx context.Context, pcm []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	player := p.ctx.NewPlayer(bytes.NewReader(pcm))

	p.mu.Lock()
	p.active = player
	p.stopped = false
	p.mu.Unlock()

	player.Play()
	p.log.Debug("playing %d bytes of PCM", len(pcm))

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	var result error
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			result = ctx.Err()
		case <-ticker.C:
		}
		if result != nil {
			break
		}
	}

	p.mu.Lock()
	if result == nil && p.stopped {
		result = domain.ErrInterrupted
	}
	p.active = nil
	p.stopped = false
	p.mu.Unlock()

	if err := player.Close(); err != nil && result == nil {
		return err
	}
	return result
}

// Stop interrupts the currently playing audio, if any. Safe to call
// concurrently and when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	if active != nil {
		p.stopped = true
	}
	p.mu.Unlock()

	if active != nil {
		active.Pause()
		p.log.Debug("playback interrupted")
	}
}

// extractPCM strips the WAV/RIFF header and returns raw PCM data.
func extractPCM(wav []byte) ([]byte, error) {
	if len(wav) < 44 {
		return nil, errors.New("wav data too short")
	}

	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("not a valid WAV file")
	}

	// Walk chunks to find the "data" chunk.
	pos := 12
	for pos < len(wav)-8 {
		chunkID := string(wav[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))

		if chunkID == "data" {
			start := pos + 8
			end := min(start+chunkSize, len(wav))
			return wav[start:end], nil
		}

		pos += 8 + chunkSize
		// Chunks are word-aligned.
		if chunkSize%2 != 0 {
			pos++
		}
	}

	return nil, errors.New("data chunk not found in WAV")
}
