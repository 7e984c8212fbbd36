package container

import (
	"context"
	"fmt"
	"strings"

	"moviebrowse/internal/config"
	"moviebrowse/internal/handlers"
	"moviebrowse/internal/logger"
	"moviebrowse/internal/services"
	"moviebrowse/internal/session"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Container struct {
	Redis   *redis.Client
	Logger  *logrus.Logger
	Movies  *services.Client
	Views   session.Store
	Memory  *session.MemoryStore // nil unless the memory backend is in use
	Handler *handlers.Handler
	Server  config.ServerConfig
}

func New(ctx context.Context) (*Container, error) {
	log := logger.Get()

	tmdb := config.LoadTMDB()
	if tmdb.APIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	server := config.LoadServer()
	sess := config.LoadSession()

	movies := services.NewClientWithConfig(&services.ClientConfig{
		BaseURL:       tmdb.BaseURL,
		ImageBaseURL:  tmdb.ImageBaseURL,
		APIKey:        tmdb.APIKey,
		Timeout:       tmdb.Timeout,
		RandomPageMax: tmdb.RandomPageMax,
		Logger:        log,
	})

	c := &Container{
		Logger: log,
		Movies: movies,
		Server: server,
	}

	switch strings.ToLower(sess.Backend) {
	case "redis":
		client, err := session.NewRedisClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		log.Info("Redis connection successful")
		c.Redis = client
		c.Views = session.NewRedisStore(client, server.PageSize, sess.TTL, log)
	case "memory", "":
		c.Memory = session.NewMemoryStore(server.PageSize, sess.TTL, log)
		c.Views = c.Memory
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", sess.Backend)
	}

	c.Handler = handlers.NewHandler(movies, c.Views, log)
	c.Handler.SecureCookies(server.SecureCookie)

	log.WithFields(logrus.Fields{
		"session_backend": sess.Backend,
		"page_size":       server.PageSize,
		"secure_cookie":   server.SecureCookie,
	}).Info("Container initialized")

	return c, nil
}

func (c *Container) Close() {
	if c.Views != nil {
		if err := c.Views.Close(); err != nil {
			c.Logger.WithError(err).Warn("Failed to close view store")
		} else if c.Redis != nil {
			c.Logger.Info("Redis connection closed")
		}
	}
}
