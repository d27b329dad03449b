// File: cmd/hubstore/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	// Explicitly import driver implementations so their init() functions register them
	_ "hubstore/internal/provider"
)

func main() {
	// HUBSTORE_* settings may come from a local .env file
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Execute(ctx)
	stop()
	os.Exit(code)
}
