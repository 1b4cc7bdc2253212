package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/skyfall/internal/audio"
	"github.com/tomz197/skyfall/internal/config"
	"github.com/tomz197/skyfall/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadGame()
	if err != nil {
		return err
	}

	// The terminal belongs to the game, so logs go to a file or nowhere.
	logOut, err := config.OpenLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logOut.Close()
	logger, err := config.NewLogger(logOut, cfg.LogLevel, "skyfall")
	if err != nil {
		return err
	}

	policy, err := cfg.LoadPolicy()
	if err != nil {
		return err
	}

	opts := loop.ClientOptions{
		Logger: logger,
		Policy: policy,
	}
	if cfg.Audio {
		player := audio.NewPlayer(cfg.Volume, logger)
		if err := player.Initialize(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer player.Close()
			opts.Observer = player
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	logger.Info("session started")
	if err := loop.Run(ctx, os.Stdin, os.Stdout, opts); err != nil {
		return err
	}
	logger.Info("session ended")
	return nil
}
