package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moviebrowse/internal/config"
	"moviebrowse/internal/container"
	"moviebrowse/internal/handlers"
	"moviebrowse/internal/logger"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
)

func main() {
	logger.Init()
	log := logger.Get()

	err := godotenv.Load(".env.local")
	if err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	if level := config.GetEnv("LOG_LEVEL", ""); level != "" && !logger.SetLevel(level) {
		log.WithField("level", level).Warn("Unknown LOG_LEVEL, keeping info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize application")
	}
	defer c.Close()

	srv := &http.Server{
		Addr:              ":" + c.Server.Port,
		Handler:           handlers.NewRouter(c.Handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("Movie browser starting on port %s", c.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	if c.Memory != nil {
		g.Go(func() error {
			return c.Memory.RunJanitor(gctx, janitorInterval)
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server stopped with error")
		c.Close()
		os.Exit(1)
	}
	log.Info("Server stopped")
}
