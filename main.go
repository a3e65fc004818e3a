package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.lost.host/meutraa/pitchtrainer/internal/capture"
	"git.lost.host/meutraa/pitchtrainer/internal/config"
	"git.lost.host/meutraa/pitchtrainer/internal/parser"
	"git.lost.host/meutraa/pitchtrainer/internal/pitch"
	"git.lost.host/meutraa/pitchtrainer/internal/practice"
	"git.lost.host/meutraa/pitchtrainer/internal/render"
	"git.lost.host/meutraa/pitchtrainer/internal/tone"
	"github.com/charmbracelet/log"
	"github.com/eiannone/keyboard"
	"github.com/faiface/beep"
	"github.com/pkg/errors"
)

const toneLength = time.Second

func main() {
	if err := run(); nil != err {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Parse(os.Args[1:])
	if nil != err {
		return err
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if nil != err {
		return errors.Wrap(err, "unable to open log file")
	}
	defer logFile.Close()
	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		Prefix:          "pitchtrainer",
	})
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	log.SetDefault(logger)

	// Ensure our Default implementations are used as interfaces
	var psr parser.Parser = &parser.DefaultParser{}
	var r render.Renderer = render.NewDefaultRenderer()

	sequence, err := psr.Parse(cfg.Sequence)
	if nil != err {
		return err
	}
	logger.Info("sequence loaded", "name", sequence.Name, "notes", sequence.Len())

	var source capture.Source
	if cfg.Input != "" {
		f := capture.NewFile(cfg.Input, cfg.WindowSize)
		f.Logger = logger
		source = f
	} else {
		m := capture.NewMicrophone(uint32(cfg.SampleRate), cfg.WindowSize)
		m.Logger = logger
		source = m
	}

	player := tone.NewPlayer(beep.SampleRate(cfg.SampleRate))
	player.Logger = logger
	if err := player.Init(); nil != err {
		// practice works without a reference tone
		logger.Warn("reference tone unavailable", "err", err)
	}
	defer player.Close()

	keys, err := keyboard.GetKeys(16)
	if nil != err {
		return errors.Wrap(err, "unable to open keyboard")
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			logger.Warn("unable to close keyboard", "err", err)
		}
	}()

	if err := r.Init(); nil != err {
		return err
	}
	defer func() {
		// Restore the terminal state
		if err := r.Deinit(); nil != err {
			logger.Warn("unable to restore terminal", "err", err)
		}
	}()

	ctrl := practice.NewController(cfg, sequence, source, pitch.NewMcLeod(cfg.WindowSize), r)
	ctrl.Logger = logger
	defer func() {
		if err := ctrl.Stop(); nil != err {
			logger.Warn("unable to stop session", "err", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := ctrl.Draw(); nil != err {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case u := <-ctrl.Updates():
			logger.Debug("update", "status", u.Status, "feedback", u.Feedback, "target", u.Target, "detected", u.Detected)
			// the frame task draws while a session runs
			if !ctrl.Running() {
				if err := ctrl.Draw(); nil != err {
					return err
				}
			}
		case key := <-keys:
			if nil != key.Err {
				return errors.Wrap(key.Err, "unable to read keyboard")
			}
			switch {
			case key.Key == keyboard.KeyEsc, key.Key == keyboard.KeyCtrlC, key.Rune == 'q':
				return nil
			case key.Rune == 's':
				if err := ctrl.Start(ctx); nil != err && !errors.Is(err, capture.ErrPermission) {
					return err
				}
			case key.Rune == 'x':
				if err := ctrl.Stop(); nil != err {
					logger.Warn("unable to stop session", "err", err)
				}
			case key.Rune == 't':
				if k := ctrl.Reference(); k != "" {
					if err := player.Play(k, toneLength); nil != err {
						logger.Warn("unable to play reference tone", "key", k, "err", err)
					}
				}
			}
		}
	}
}
