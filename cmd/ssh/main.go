package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"

	"github.com/tomz197/termpong/internal/config"
	"github.com/tomz197/termpong/internal/loop"
	"github.com/tomz197/termpong/internal/loop/server"
)

const (
	defaultHost              = "::"
	defaultPort              = "2222"
	defaultHostKeyPath       = "/app/keys/host_key"
	defaultInactivityTimeout = "2m"
	shutdownTimeout          = 15 * time.Second
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	if err := config.SetupLogger(os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	// Route the standard logger through zerolog too.
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	inactivity, err := time.ParseDuration(config.GetEnv("INACTIVITY_TIMEOUT", defaultInactivityTimeout))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid INACTIVITY_TIMEOUT")
	}
	settings, err := config.LoadSettings(config.GetEnv("PONG_CONFIG", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load settings")
	}
	log.Info().
		Str("host", host).
		Str("port", port).
		Str("host_key", hostKeyPath).
		Dur("inactivity_timeout", inactivity).
		Int("win_score", settings.WinScore).
		Msg("ssh config")

	sessions := server.NewServer(log.Logger)
	sshLogger := log.With().Str("component", "wish").Logger()

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware(sessions, settings, inactivity),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(&sshLogger),
		),
		// Set TCP_NODELAY to reduce latency for pointer input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Str("addr", net.JoinHostPort(host, port)).Msg("starting ssh server")
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-done
	log.Info().Int("sessions", sessions.Count()).Msg("shutting down server")

	// Notify players and wait for them to disconnect
	if remaining := sessions.Shutdown(shutdownTimeout); remaining > 0 {
		log.Warn().Int("remaining", remaining).Msg("closing sessions that did not disconnect")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("shutdown error")
	}
}

// gameMiddleware runs one Pong session per SSH connection.
func gameMiddleware(sessions *server.Server, settings config.Settings, inactivity time.Duration) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			handle := sessions.Register(sess.User())
			defer sessions.Unregister(handle.ID)

			logger := log.With().Int("session", handle.ID).Str("user", sess.User()).Logger()
			logger.Info().
				Str("terminal", pty.Term).
				Int("width", pty.Window.Width).
				Int("height", pty.Window.Height).
				Msg("new game session")

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			renderer := lipgloss.NewRenderer(sess)
			renderer.SetColorProfile(termenv.ANSI256)

			err := loop.Run(bufio.NewReader(sess), sess, loop.Options{
				TermSizeFunc:      sizeTracker.getSize,
				Settings:          settings,
				Renderer:          renderer,
				Logger:            logger,
				Events:            handle.EventsCh,
				InactivityTimeout: inactivity,
			})
			if err != nil {
				logger.Error().Err(err).Msg("game error")
			}

			logger.Info().Msg("session ended")
			next(sess)
		}
	}
}
