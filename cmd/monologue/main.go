// main.go - Typewriter dialogue demo

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/intuitionamiga/monologue"
)

func main() {
	opts, err := parseOptions(os.Args[0], os.Args[1:], os.Getenv, os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if opts.Features {
		monologue.PrintFeatures(os.Stdout)
		return
	}

	logger := monologue.NewLogger(opts.LogLevel, opts.LogFormat, os.Stderr)
	logger.Info("starting monologue", "version", monologue.Version, "features", monologue.CompiledFeatures())

	if err := run(opts, logger); err != nil {
		logger.Error("monologue failed", "error", err)
		os.Exit(1)
	}
}

func run(opts *options, logger *slog.Logger) error {
	cfg, err := opts.engineConfig()
	if err != nil {
		return fmt.Errorf("invalid beep settings: %w", err)
	}
	if opts.Clip != "" {
		clip, err := monologue.LoadClip(opts.Clip, opts.SampleRate)
		if err != nil {
			return err
		}
		cfg.Sample = clip
		logger.Info("clip loaded", "path", opts.Clip, "frames", clip.Frames(), "duration", clip.Duration())
	}
	logger.Info("configuration loaded",
		"seconds_per_char", cfg.SecondsPerChar,
		"trigger", cfg.BeepTrigger,
		"source", cfg.BeepSource,
		"wave", cfg.WaveType,
		"frequency", cfg.BaseFrequency,
		"sample_rate", opts.SampleRate,
		"channels", opts.Channels,
	)

	dialogue, err := opts.dialogue(cfg, logger)
	if err != nil {
		return err
	}

	player, err := monologue.NewOtoPlayer(opts.SampleRate, opts.Channels)
	if err != nil {
		return fmt.Errorf("failed to initialize audio: %w", err)
	}
	defer player.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		mesh     monologue.MeshSink
		box      *monologue.DialogueBox
		termHost *monologue.TerminalHost
	)
	if opts.Terminal {
		termHost = monologue.NewTerminalHost(os.Stdin, os.Stdout)
		mesh = termHost
	} else {
		box = monologue.NewDialogueBox(opts.Width, opts.Height)
		box.SetTitle("Monologue - " + dialogue.Name)
		mesh = box
	}

	engine := monologue.NewEngine(cfg, monologue.Hosts{Mesh: mesh, Audio: player},
		monologue.WithLogger(logger),
		monologue.WithSampleRate(opts.SampleRate),
	)
	events := make(chan monologue.CompletionEvent, 8)
	engine.OnTextOutputFinished(func(ev monologue.CompletionEvent) {
		select {
		case events <- ev:
		default:
		}
	})

	player.SetupPlayer(engine)
	player.Start()

	seq := monologue.NewSequence(engine, dialogue, opts.Loop)
	seq.Continue()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev := <-events:
				logger.Info("line finished", "reveal_id", ev.RevealID, "skipped", ev.Skipped, "remaining", seq.Remaining())
			}
		}
	})

	if opts.Terminal {
		g.Go(func() error {
			defer stop()
			return termHost.Run(gctx, engine, seq, monologue.DEFAULT_TPS)
		})
		return g.Wait()
	}

	// The window loop has to own the main goroutine.
	box.Attach(engine, seq)
	g.Go(func() error {
		<-gctx.Done()
		box.Close()
		return nil
	})
	runErr := box.Run()
	stop()
	return errors.Join(runErr, g.Wait())
}
