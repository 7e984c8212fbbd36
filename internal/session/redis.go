package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"moviebrowse/internal/config"
	"moviebrowse/internal/pagination"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	viewKeyPrefix = "moviebrowse:view:"
	maxTxAttempts = 5
)

// RedisStore keeps view snapshots as JSON with a sliding TTL. Updates use
// optimistic WATCH transactions so concurrent requests on one view never
// overwrite each other.
type RedisStore struct {
	client   *redis.Client
	pageSize int
	ttl      time.Duration
	logger   *logrus.Logger
}

func NewRedisStore(client *redis.Client, pageSize int, ttl time.Duration, logger *logrus.Logger) *RedisStore {
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisStore{
		client:   client,
		pageSize: pageSize,
		ttl:      ttl,
		logger:   logger,
	}
}

// NewRedisClient connects using the R_HOST / R_PORT / R_PASS settings.
func NewRedisClient(ctx context.Context) (*redis.Client, error) {
	host, port, password := config.RedisConfig()

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Update(ctx context.Context, viewID string, r pagination.Renderer, fn func(*pagination.Controller) error) error {
	key := viewKeyPrefix + viewID

	txf := func(tx *redis.Tx) error {
		var snap pagination.Snapshot
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("failed to read view: %w", err)
		default:
			if err := json.Unmarshal(raw, &snap); err != nil {
				s.logger.WithError(err).WithField("view_id", viewID).Warn("Discarding unreadable view snapshot")
				snap = pagination.Snapshot{}
			}
		}

		c := pagination.Restore(snap, s.pageSize, r)
		if err := fn(c); err != nil {
			return err
		}

		data, err := json.Marshal(c.Snapshot())
		if err != nil {
			return fmt.Errorf("failed to marshal view: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"view_id": viewID,
			"attempt": attempt + 1,
		}).Debug("View changed during update, trying again")
	}
	return ErrConflict
}

func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
