package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/tomz197/termpong/internal/config"
	"github.com/tomz197/termpong/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pong: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	// The game owns the terminal, so logs only go to a file.
	logFile, err := config.OpenLogFile(config.GetEnv("LOG_FILE", ""))
	if err != nil {
		return err
	}
	var logOut io.Writer
	if logFile != nil {
		defer logFile.Close()
		logOut = logFile
	}
	if err := config.SetupLogger(logOut); err != nil {
		return err
	}

	settings, err := config.LoadSettings(config.GetEnv("PONG_CONFIG", ""))
	if err != nil {
		return err
	}
	renderer := lipgloss.NewRenderer(os.Stdout)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	log.Info().Int("win_score", settings.WinScore).Str("sound", settings.Sound).Msg("game started")

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(reader, os.Stdout, loop.Options{
		Settings: settings,
		Renderer: renderer,
		Logger:   log.Logger,
	})
	if err != nil {
		log.Error().Err(err).Msg("game error")
		return fmt.Errorf("game error: %w", err)
	}

	log.Info().Msg("game ended")
	return nil
}
