// Command verdict answers legal questions from a fixed corpus of acts.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/verdict/internal/adapters/driving/cli"
	"github.com/custodia-labs/verdict/internal/logger"
)

func main() {
	// Credentials may live in a local .env; the real environment wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("reading .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, wire)
	stop()
	os.Exit(code)
}
