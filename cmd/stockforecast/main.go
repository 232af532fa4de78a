package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"StockForecast/internal/cli"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := cli.Execute(ctx); err != nil {
		log.Printf("[FATAL] %v", err)
		cancel()
		os.Exit(1)
	}
}
