// file: db/redis.go

package db

import (
	"bank-ledger-api/config"
	"bank-ledger-api/logger"
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisOptions maps the redis config section onto client options.
func RedisOptions() *redis.Options {
	cfg := config.AppConfig.Redis
	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	}
}

// ConnectRedis returns a client for the account-list cache once the server
// answers a ping.
func ConnectRedis(ctx context.Context) (*redis.Client, error) {
	opts := RedisOptions()
	log := logger.Log.WithFields(logrus.Fields{
		"address": opts.Addr,
		"db":      opts.DB,
	})

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Error("Failed to ping Redis")
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info("Redis connection established successfully")
	return rdb, nil
}
