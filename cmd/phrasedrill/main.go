// Command phrasedrill runs a spoken phrase-building drill.
//
// Each level offers a few columns of words. The drill reads the selected
// word of each column aloud in turn; the learner changes the word under
// focus with the arrow keys until the spoken phrase matches the goal.
//
// Usage:
//
//	phrasedrill [--verbose] [--quiet] [--plain] [--levels story.yaml]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/hammamikhairi/phrasedrill/internal/config"
	"github.com/hammamikhairi/phrasedrill/internal/console"
	"github.com/hammamikhairi/phrasedrill/internal/display"
	"github.com/hammamikhairi/phrasedrill/internal/domain"
	"github.com/hammamikhairi/phrasedrill/internal/drill"
	"github.com/hammamikhairi/phrasedrill/internal/engine"
	"github.com/hammamikhairi/phrasedrill/internal/levels"
	"github.com/hammamikhairi/phrasedrill/internal/logger"
	"github.com/hammamikhairi/phrasedrill/internal/speech"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "phrasedrill: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := pflag.NewFlagSet("phrasedrill", pflag.ContinueOnError)
	verbose := flags.BoolP("verbose", "v", false, "enable verbose/debug logging")
	quiet := flags.BoolP("quiet", "q", false, "disable all logging")
	cfg.BindFlags(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	logLevel, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the terminal stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "-" && cfg.LogFile != "stderr" {
		if dir := filepath.Dir(cfg.LogFile); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Third-party libraries log through the standard package.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var source domain.LevelSource
	if cfg.Levels != "" {
		source = levels.NewFileSource(cfg.Levels, log.Named("levels"))
	} else {
		source, err = levels.Builtin(log.Named("levels"))
		if err != nil {
			return err
		}
	}
	story, err := loadStory(ctx, source)
	if err != nil {
		return err
	}

	var printer *console.Printer
	if cfg.Plain {
		printer = console.NewPrinter(log.Named("console"), nil)
	}

	speaker, buzzer, voice := buildAudio(cfg, log.Named("speech"), printer)
	if voice != nil {
		defer func() {
			hits, misses := voice.Cache().Stats()
			log.Info("audio cache: %d hits, %d misses", hits, misses)
		}()
	}

	fmt.Println(display.RenderBanner())

	opts := []engine.Option{engine.WithGap(cfg.Gap)}
	if cfg.Plain {
		fmt.Println(display.BannerStyle.Render("  Type up/down (or k/j) and press enter; repeat, or quit."))
		fmt.Println()
		return runPlain(ctx, cancel, story, speaker, buzzer, printer, log, opts)
	}
	fmt.Println(display.BannerStyle.Render("  ↑/↓ change the word under focus, ←/→ repeat it, q quits."))
	fmt.Println()
	return runUI(ctx, cancel, story, speaker, buzzer, log, opts)
}

func loadStory(ctx context.Context, source domain.LevelSource) (*drill.Story, error) {
	lvls, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading levels: %w", err)
	}
	if len(lvls) == 0 {
		return nil, fmt.Errorf("loading levels: %w", domain.ErrNoLevels)
	}
	story, err := drill.New(lvls)
	if err != nil {
		return nil, fmt.Errorf("building story: %w", err)
	}
	return story, nil
}

// buildAudio returns Azure speech and the buzzer when credentials and an
// audio device are available, and the silent stand-in otherwise.
func buildAudio(cfg config.Config, log *logger.Logger, printer *console.Printer) (domain.Speaker, domain.Buzzer, *speech.Voice) {
	silent := func() (domain.Speaker, domain.Buzzer, *speech.Voice) {
		var opts []speech.SilentOption
		if printer != nil {
			opts = append(opts, speech.WithSayHook(printer.Say))
		}
		s := speech.NewSilent(log, opts...)
		return s, s, nil
	}

	if !cfg.SpeechEnabled() {
		if !cfg.NoSpeech {
			log.Info("TTS disabled: set %s and %s env vars to enable", speech.EnvAzureSpeechKey, speech.EnvAzureSpeechRegion)
		}
		return silent()
	}

	player, err := speech.NewPlayer(log.Named("player"))
	if err != nil {
		log.Error("audio player init failed, speech disabled: %v", err)
		return silent()
	}

	tts := speech.NewAzureClient(cfg.SpeechKey, cfg.SpeechRegion, log.Named("azure"),
		speech.WithVoice(cfg.Voice),
		speech.WithRate(cfg.Rate),
	)
	cache := speech.NewAudioCache(tts.Voice(), tts.Rate(), cfg.CacheDir, cfg.DiskCache, log.Named("cache"))
	voice := speech.NewVoice(tts, player, cache, log)
	log.Info("TTS enabled (voice=%s, region=%s)", tts.Voice(), cfg.SpeechRegion)
	return voice, speech.NewBuzzer(player), voice
}

func runUI(ctx context.Context, cancel context.CancelFunc, story *drill.Story, speaker domain.Speaker, buzzer domain.Buzzer, log *logger.Logger, opts []engine.Option) error {
	ui := display.NewUI()
	eng := engine.New(story, speaker, buzzer, ui, log.Named("engine"), opts...)

	// Run the drill in the background; the end screen stays up until the
	// learner presses a key.
	go func() {
		ui.WaitReady()
		if err := eng.Run(ctx, ui.Keys()); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("drill: %v", err)
			ui.Quit()
		}
	}()
	go func() {
		<-ctx.Done()
		ui.Quit()
	}()

	// Bubble Tea owns the terminal; blocks until quit.
	err := ui.Run()
	cancel()
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

func runPlain(ctx context.Context, cancel context.CancelFunc, story *drill.Story, speaker domain.Speaker, buzzer domain.Buzzer, printer *console.Printer, log *logger.Logger, opts []engine.Option) error {
	parser := console.NewKeyParser(log.Named("console"))
	keys, quit := parser.Feed(ctx, os.Stdin)
	go func() {
		select {
		case <-quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	eng := engine.New(story, speaker, buzzer, printer, log.Named("engine"), opts...)
	if err := eng.Run(ctx, keys); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
