// file: service/cache.go

package service

import (
	"bank-ledger-api/logger"
	"bank-ledger-api/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ICacheClient defines the contract for a cache client.
// *redis.Client satisfies it.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// AccountListCache keeps each owner's account list in the cache. A nil
// *AccountListCache is valid and caches nothing. Cache failures are logged
// and otherwise ignored: the store stays the source of truth.
//
// Entries are keyed by a per-owner generation counter. Invalidate bumps the
// counter, so a list loaded before a commit can only ever be written under
// the old generation, which no later reader looks up.
type AccountListCache struct {
	client ICacheClient
	ttl    time.Duration
}

// CacheSnapshot records the generation a reader saw before loading from
// the store. The zero value disables the write-back.
type CacheSnapshot struct {
	generation int64
	valid      bool
}

func NewAccountListCache(client ICacheClient, ttl time.Duration) *AccountListCache {
	if client == nil {
		return nil
	}
	return &AccountListCache{client: client, ttl: ttl}
}

func generationKey(ownerID string) string {
	return fmt.Sprintf("accounts:gen:%s", ownerID)
}

func accountsCacheKey(ownerID string, generation int64) string {
	return fmt.Sprintf("accounts:%s:%d", ownerID, generation)
}

func (c *AccountListCache) generation(ctx context.Context, ownerID string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the cached list for ownerID. On a miss the returned snapshot
// must be handed to Set together with the list loaded from the store.
func (c *AccountListCache) Get(ctx context.Context, ownerID string) ([]*model.Account, CacheSnapshot, bool) {
	if c == nil {
		return nil, CacheSnapshot{}, false
	}
	log := logger.Log.WithField("owner_id", ownerID)

	gen, err := c.generation(ctx, ownerID)
	if err != nil {
		log.WithError(err).Warn("Failed to read account list generation from cache")
		return nil, CacheSnapshot{}, false
	}
	snap := CacheSnapshot{generation: gen, valid: true}

	cached, err := c.client.Get(ctx, accountsCacheKey(ownerID, gen)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).Warn("Failed to read account list from cache")
		}
		return nil, snap, false
	}

	var accounts []*model.Account
	if err := json.Unmarshal([]byte(cached), &accounts); err != nil {
		log.WithError(err).Warn("Discarding undecodable cached account list")
		return nil, snap, false
	}
	return accounts, snap, true
}

// Set stores accounts under the generation captured by snap.
func (c *AccountListCache) Set(ctx context.Context, ownerID string, snap CacheSnapshot, accounts []*model.Account) {
	if c == nil || !snap.valid {
		return
	}
	data, err := json.Marshal(accounts)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, accountsCacheKey(ownerID, snap.generation), data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("owner_id", ownerID).Warn("Failed to cache account list")
	}
}

// Invalidate moves the owner to a new generation. Call it after every
// committed change to one of the owner's accounts.
func (c *AccountListCache) Invalidate(ctx context.Context, ownerID string) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, generationKey(ownerID)).Err(); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"owner_id": ownerID,
			"error":    err.Error(),
		}).Error("Failed to invalidate cached account list")
	}
}
