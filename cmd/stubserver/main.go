package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"summit-cli/internal/observability"
	"summit-cli/internal/stub"
)

func main() {
	_ = godotenv.Load()

	port := flag.Int("port", 8000, "port to listen on")
	level := flag.String("log-level", "info", "log level: debug|info|warn|error")
	flag.Parse()

	log := observability.New(os.Stderr, *level)
	log = log.With("service", "stubserver")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           stub.NewServer(log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
