package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"uttt-matchmaker/code"
)

func main() {
	config := MustLoadConfig()
	SetLogLevel(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := NewServer(config.MaxRooms, NewSessionTokens(config.TokenSecret), code.GenerateRandom)
	httpServer := &http.Server{
		Addr:    ":" + config.Port,
		Handler: NewHTTPServer(server, config.AllowedOrigins),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		LogStartedServer(config.Port)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		LogShuttingDown()
		server.Drain()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		LogServerStopped(err)
		os.Exit(1)
	}
}
