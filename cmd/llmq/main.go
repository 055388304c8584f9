package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"llmq/internal/cli"
	"llmq/internal/config"
	"llmq/internal/credentials"
	"llmq/internal/endpoint"
	"llmq/internal/providers"
	"llmq/internal/providers/transport"
)

// Exit codes let automation tell caller mistakes apart from misconfiguration
// and from network or provider failures.
const (
	exitOK                = 0
	exitFailure           = 1
	exitInvalidArgument   = 2
	exitMissingCredential = 3
	exitIO                = 4
	exitTransport         = 5
	exitProvider          = 6
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogger(cfg.Log.Level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.New(cfg).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("invocation failed")
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var providerErr *providers.ProviderError
	var transportErr *transport.TransportError
	var pathErr *fs.PathError

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, cli.ErrInvalidArgument), errors.Is(err, endpoint.ErrUnknownEndpoint):
		return exitInvalidArgument
	case errors.Is(err, credentials.ErrMissingCredential):
		return exitMissingCredential
	case errors.As(err, &pathErr):
		return exitIO
	case errors.As(err, &transportErr):
		return exitTransport
	case errors.As(err, &providerErr), errors.Is(err, providers.ErrMalformedResponse):
		return exitProvider
	default:
		return exitFailure
	}
}

func setupLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(parseLogLevel(level))
	// The generated text goes to stdout; logs stay on stderr.
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
