package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/dagcanvas/internal/ctxlog"
	"github.com/vk/dagcanvas/internal/enginesim"
)

// main runs the demo engine against a canvas server.
func main() {
	urlFlag := flag.String("url", "http://localhost:8701", "Canvas server base URL.")
	namespaceFlag := flag.String("namespace", "/canvas", "Canvas socket.io namespace.")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, logger)

	sim := enginesim.New(*urlFlag, *namespaceFlag)
	if err := sim.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
