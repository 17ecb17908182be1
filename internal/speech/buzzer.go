package speech

import (
	"context"
	"encoding/binary"
	"math"
	"time"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
)

var _ domain.Buzzer = (*Buzzer)(nil)

// PCMSink plays raw PCM in the player's format. *Player implements it.
type PCMSink interface {
	PlayPCM(ctx context.Context, pcm []byte) error
}

// tone is one segment of the failure sound.
type tone struct {
	freq float64
	dur  time.Duration
}

// wrongTones is a falling two-note buzz.
var wrongTones = []tone{
	{freq: 220, dur: 150 * time.Millisecond},
	{freq: 160, dur: 250 * time.Millisecond},
}

// Buzzer plays the wrong-answer sound. The PCM is generated once.
type Buzzer struct {
	sink PCMSink
	pcm  []byte
}

// NewBuzzer creates a buzzer that plays through sink.
func NewBuzzer(sink PCMSink) *Buzzer {
	return &Buzzer{sink: sink, pcm: squareTones(wrongTones, SampleRate, 0.25)}
}

// Buzz plays the failure sound and returns when it ends or ctx is done.
func (b *Buzzer) Buzz(ctx context.Context) error {
	return b.sink.PlayPCM(ctx, b.pcm)
}

// squareTones renders square waves as mono signed 16-bit little-endian
// PCM. Each segment fades in and out over 5ms to avoid clicks.
func squareTones(tones []tone, rate int, volume float64) []byte {
	var total int
	for _, t := range tones {
		total += samples(t.dur, rate)
	}
	out := make([]byte, 0, total*2)
	fade := rate / 200

	for _, t := range tones {
		n := samples(t.dur, rate)
		period := float64(rate) / t.freq
		for i := range n {
			v := volume
			if math.Mod(float64(i), period) >= period/2 {
				v = -volume
			}
			if i < fade {
				v *= float64(i) / float64(fade)
			} else if n-i < fade {
				v *= float64(n-i) / float64(fade)
			}
			out = binary.LittleEndian.AppendUint16(out, uint16(int16(v*math.MaxInt16)))
		}
	}
	return out
}

func samples(d time.Duration, rate int) int {
	return int(d * time.Duration(rate) / time.Second)
}
