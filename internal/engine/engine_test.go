package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
	"github.com/hammamikhairi/phrasedrill/internal/drill"
	"github.com/hammamikhairi/phrasedrill/internal/logger"
)

const waitTimeout = 2 * time.Second

// fakeAudio is speaker, buzzer, renderer and prefetcher at once. Every
// speech-side call is recorded on events; Speak and Buzz block until the
// test resolves them or their context is cancelled.
type fakeAudio struct {
	events  chan string
	resolve chan struct{}

	mu         sync.Mutex
	scenes     []domain.Scene
	prefetched [][]string
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{
		events:  make(chan string, 64),
		resolve: make(chan struct{}),
	}
}

func (f *fakeAudio) Speak(ctx context.Context, text string) error {
	f.events <- text
	return f.wait(ctx)
}

func (f *fakeAudio) Buzz(ctx context.Context) error {
	f.events <- "buzz"
	return f.wait(ctx)
}

func (f *fakeAudio) wait(ctx context.Context) error {
	select {
	case <-f.resolve:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeAudio) Cancel() { f.events <- "cancelled" }

func (f *fakeAudio) Render(scene domain.Scene) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scenes = append(f.scenes, scene)
}

func (f *fakeAudio) Prefetch(ctx context.Context, texts ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefetched = append(f.prefetched, texts)
}

func (f *fakeAudio) lastScene() domain.Scene {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scenes[len(f.scenes)-1]
}

type harness struct {
	t        *testing.T
	audio    *fakeAudio
	keys     chan domain.Key
	cancel   context.CancelFunc
	finished chan struct{}
	err      error
}

func startRun(t *testing.T, levels []domain.Level, opts ...Option) *harness {
	t.Helper()
	story, err := drill.New(levels)
	if err != nil {
		t.Fatalf("new story: %v", err)
	}

	audio := newFakeAudio()
	log := logger.New(logger.LevelOff, nil)
	opts = append([]Option{WithRunID("test")}, opts...)
	eng := New(story, audio, audio, audio, log, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{
		t:        t,
		audio:    audio,
		keys:     make(chan domain.Key, 8),
		cancel:   cancel,
		finished: make(chan struct{}),
	}
	go func() {
		h.err = eng.Run(ctx, h.keys)
		close(h.finished)
	}()
	t.Cleanup(func() {
		cancel()
		<-h.finished
	})
	return h
}

func (h *harness) expect(want ...string) {
	h.t.Helper()
	for _, w := range want {
		select {
		case got := <-h.audio.events:
			if got != w {
				h.t.Fatalf("expected %q, got %q", w, got)
			}
		case <-time.After(waitTimeout):
			h.t.Fatalf("timed out waiting for %q", w)
		}
	}
}

func (h *harness) expectQuiet() {
	h.t.Helper()
	select {
	case got := <-h.audio.events:
		h.t.Fatalf("expected no event, got %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func (h *harness) resolve() {
	h.t.Helper()
	select {
	case h.audio.resolve <- struct{}{}:
	case <-time.After(waitTimeout):
		h.t.Fatal("timed out resolving: nothing in flight")
	}
}

func (h *harness) press(k domain.Key) {
	h.keys <- k
}

func (h *harness) wait() error {
	h.t.Helper()
	select {
	case <-h.finished:
		return h.err
	case <-time.After(waitTimeout):
		h.t.Fatal("timed out waiting for run to finish")
		return nil
	}
}

func lvl(goal string, options ...[]string) domain.Level {
	return domain.Level{Options: options, Goal: goal}
}

func TestAnnouncesFirstSnippet(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("a", []string{"a"})})
	h.expect("a")
}

func TestWaitsForSnippetBeforeNext(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("foo", []string{"a"})})
	h.expect("a")
	h.expectQuiet()

	h.resolve()
	h.expect("buzz")
	h.expectQuiet()

	h.resolve()
	h.expect("a")
}

func TestLoopsThroughFirstOptions(t *testing.T) {
	h := startRun(t, []domain.Level{
		lvl("a", []string{"a"}, []string{"b", "n"}, []string{"c", "n", "m"}),
	})

	h.expect("a")
	h.resolve()
	h.expect("b")
	h.resolve()
	h.expect("c")
	h.resolve()
	h.expect("buzz")
	h.resolve()
	h.expect("a")
}

func TestArrowKeyChangesFocusedOption(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("a", []string{"a", "b"}, []string{"c"})})

	h.expect("a")
	h.press(domain.KeyDown)
	h.expect("cancelled", "b")
	h.resolve()
	h.expect("c")
	h.resolve()
	h.expect("buzz")
	h.resolve()
	h.expect("b")
}

func TestLoopsAroundOptions(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("foo", []string{"a", "b"})})

	h.expect("a")
	h.press(domain.KeyDown)
	h.expect("cancelled", "b")
	h.press(domain.KeyDown)
	h.expect("cancelled", "a")
	h.resolve()
	h.expect("buzz")
	h.resolve()
	h.expect("a")
}

func TestUpAndDownKeys(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("a", []string{"a", "b", "c"})})

	h.expect("a")
	h.press(domain.KeyDown)
	h.expect("cancelled", "b")
	h.press(domain.KeyUp)
	h.expect("cancelled", "a")
	h.press(domain.KeyUp)
	h.expect("cancelled", "c")
}

func TestChangesLaterOptions(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("a", []string{"a"}, []string{"b", "c"})})

	h.expect("a")
	h.resolve()
	h.expect("b")
	h.press(domain.KeyDown)
	h.expect("cancelled", "c")
	h.resolve()
	h.expect("buzz")
	h.resolve()
	h.expect("a")
	h.resolve()
	h.expect("c")
}

func TestSideKeysReannounce(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("z", []string{"a", "b"}, []string{"c"})})

	h.expect("a")
	h.press(domain.KeyRight)
	h.expect("cancelled", "a")
	h.press(domain.KeyLeft)
	h.expect("cancelled", "a")
	h.resolve()
	h.expect("c")
}

func TestUnknownKeyIsIgnored(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("z", []string{"a"}, []string{"b"})})

	h.expect("a")
	h.press(domain.KeyUnknown)
	h.expectQuiet()
	h.resolve()
	h.expect("b")
}

func TestRendersState(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("a", []string{"a", "b"}, []string{"c"})})

	check := func(want []domain.Cell) {
		t.Helper()
		if diff := cmp.Diff(want, h.audio.lastScene().Cells); diff != "" {
			t.Fatalf("scene cells (-want +got):\n%s", diff)
		}
	}

	h.expect("a")
	check([]domain.Cell{{Text: "a", Focused: true}, {Text: "c"}})

	h.press(domain.KeyDown)
	h.expect("cancelled", "b")
	check([]domain.Cell{{Text: "b", Focused: true}, {Text: "c"}})

	h.resolve()
	h.expect("c")
	check([]domain.Cell{{Text: "b"}, {Text: "c", Focused: true}})
}

func TestBuzzesAtEndOfWrongPhrase(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("b c", []string{"a", "b"}, []string{"c"})})

	h.expect("a")
	h.resolve()
	h.expect("c")
	h.resolve()
	h.expect("buzz")
	h.expectQuiet()
	h.resolve()
	h.expect("a")

	if m := h.audio.lastScene().Misses; m != 1 {
		t.Fatalf("expected 1 miss, got %d", m)
	}
}

func TestMovesToNextLevelAndEnds(t *testing.T) {
	h := startRun(t, []domain.Level{
		lvl("b c", []string{"a", "b"}, []string{"c"}),
		lvl("next level", []string{"next"}, []string{"level"}),
	})

	h.expect("a")
	h.press(domain.KeyDown)
	h.expect("cancelled", "b")
	h.resolve()
	h.expect("c")
	h.resolve()
	h.expect("next")
	h.resolve()
	h.expect("level")
	h.resolve()

	if err := h.wait(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !h.audio.lastScene().End {
		t.Fatalf("expected end scene, got %+v", h.audio.lastScene())
	}
	h.expectQuiet()

	h.audio.mu.Lock()
	defer h.audio.mu.Unlock()
	want := [][]string{{"a", "b", "c"}, {"next", "level"}}
	if diff := cmp.Diff(want, h.audio.prefetched); diff != "" {
		t.Fatalf("prefetched (-want +got):\n%s", diff)
	}
}

func TestKeyDuringBuzzCancelsWholeAnnouncement(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("b", []string{"a", "b"})})

	h.expect("a")
	h.resolve()
	h.expect("buzz")
	h.press(domain.KeyDown)
	h.expect("cancelled", "b")
	h.resolve()

	if err := h.wait(); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestGapIsInterruptible(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("z", []string{"a", "b"}, []string{"c"})}, WithGap(time.Hour))

	h.expect("a")
	h.resolve()
	h.expectQuiet()
	h.press(domain.KeyDown)
	h.expect("cancelled", "b")
}

func TestContextCancelStopsRun(t *testing.T) {
	h := startRun(t, []domain.Level{lvl("z", []string{"a"})})

	h.expect("a")
	h.cancel()
	if err := h.wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	h.expect("cancelled")
}

// failingSpeaker rejects every announcement immediately.
type failingSpeaker struct {
	mu     sync.Mutex
	spoken []string
}

func (s *failingSpeaker) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, text)
	return errors.New("device unavailable")
}

func (s *failingSpeaker) Cancel() {}

func TestSpeakerFailureCountsAsCompletion(t *testing.T) {
	story, err := drill.New([]domain.Level{lvl("a b", []string{"a"}, []string{"b"})})
	if err != nil {
		t.Fatalf("new story: %v", err)
	}
	speaker := &failingSpeaker{}
	audio := newFakeAudio()
	eng := New(story, speaker, audio, audio, logger.New(logger.LevelOff, nil))

	if err := eng.Run(context.Background(), nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, speaker.spoken); diff != "" {
		t.Fatalf("spoken (-want +got):\n%s", diff)
	}
	if !story.Done() {
		t.Fatal("expected story to be done")
	}
}
