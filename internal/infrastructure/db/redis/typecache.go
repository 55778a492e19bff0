package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/towerops/toweradmin/internal/core/domain"
)

const typeCacheTTL = 5 * time.Minute

// TypeCache caches per-instance credential-type listings so a fleet-wide
// status sweep does not hit every tower on each request.
// Key format: credtypes:<instance_name>
type TypeCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewTypeCache(client *redis.Client, log zerolog.Logger) *TypeCache {
	return &TypeCache{client: client, log: log}
}

// Get returns the cached listing for an instance. Cache failures are treated
// as misses: the caller falls back to the upstream fetch.
func (c *TypeCache) Get(ctx context.Context, instanceName string) ([]domain.CredentialType, bool) {
	raw, err := c.client.Get(ctx, c.key(instanceName)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("instance", instanceName).Msg("credential type cache read failed")
		}
		return nil, false
	}

	var types []domain.CredentialType
	if err := json.Unmarshal(raw, &types); err != nil {
		c.log.Warn().Err(err).Str("instance", instanceName).Msg("credential type cache entry corrupt, dropping")
		_ = c.client.Del(ctx, c.key(instanceName)).Err()
		return nil, false
	}
	return types, true
}

// Set stores the listing with a TTL. Failures are logged and swallowed.
func (c *TypeCache) Set(ctx context.Context, instanceName string, types []domain.CredentialType) {
	raw, err := json.Marshal(types)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(instanceName), raw, typeCacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("instance", instanceName).Msg("credential type cache write failed")
	}
}

func (c *TypeCache) key(instanceName string) string {
	return "credtypes:" + instanceName
}
