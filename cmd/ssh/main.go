package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/skyfall/internal/config"
	"github.com/tomz197/skyfall/internal/draw"
	"github.com/tomz197/skyfall/internal/level"
	"github.com/tomz197/skyfall/internal/loop"
	"github.com/tomz197/skyfall/internal/loop/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ssh server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	sshCfg, gameCfg, err := config.LoadSSH()
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(os.Stderr, gameCfg.LogLevel, "skyfall-ssh")
	if err != nil {
		return err
	}
	policy, err := gameCfg.LoadPolicy()
	if err != nil {
		return err
	}

	logger.Info("ssh config", "host", sshCfg.Host, "port", sshCfg.Port, "hostKey", sshCfg.HostKeyPath)

	// Registry of live sessions, shared by all SSH clients
	registry := server.NewServer(logger)
	handler := &gameHandler{
		registry:   registry,
		logger:     logger,
		policy:     policy,
		inactivity: sshCfg.Inactivity,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(sshCfg.Host, sshCfg.Port)),
		wish.WithMiddleware(
			handler.middleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if sshCfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(sshCfg.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	logger.Info("starting ssh server", "addr", s.Addr)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-done:
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
	logger.Info("shutting down server")

	// Tell players about the shutdown and give them time to finish
	logger.Info("notifying connected players", "count", registry.ActiveClients())
	if !registry.Shutdown(sshCfg.ShutdownGrace) {
		logger.Warn("players still connected after grace period", "count", registry.ActiveClients())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// gameHandler runs one game session per SSH connection.
type gameHandler struct {
	registry   server.Registry
	logger     *log.Logger
	policy     *level.Policy
	inactivity bool
}

func (h *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := h.logger.With("user", sess.User())
		logger.Info("new game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		tracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				tracker.update(win.Width, win.Height)
			}
		}()

		c := loop.NewClient(bufio.NewReader(sess), sess, loop.ClientOptions{
			TermSizeFunc: tracker.getSize,
			Username:     sess.User(),
			Logger:       logger,
			Policy:       h.policy,
			Registry:     h.registry,
			Renderer:     lipgloss.NewRenderer(sess),
			Inactivity:   h.inactivity,
		})
		if err := c.Run(sess.Context()); err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended", "score", c.Session().Score(), "level", c.Session().Level())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
