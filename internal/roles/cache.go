package roles

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/stafflane/stafflane/internal/authz"
)

const grantKeyPrefix = "stafflane:grants:"

// cachedRole is the wire form of a cached grant bundle.
type cachedRole struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// GrantCache is a read-through cache in front of the role store. Redis
// outages degrade to direct store reads; concurrent misses for the same
// role collapse into one store query.
type GrantCache struct {
	repo   RepositoryPort
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
	group  singleflight.Group
}

// NewGrantCache constructs the cache. A nil redis client disables caching
// entirely and every lookup goes to the store.
func NewGrantCache(repo RepositoryPort, client *redis.Client, logger *slog.Logger, ttl time.Duration) *GrantCache {
	return &GrantCache{repo: repo, client: client, logger: logger, ttl: ttl}
}

// Grants resolves a role's grant bundle, serving from Redis when possible.
func (c *GrantCache) Grants(ctx context.Context, roleID string) (authz.RoleGrants, error) {
	if c.client != nil {
		payload, err := c.client.Get(ctx, grantKeyPrefix+roleID).Bytes()
		if err == nil {
			var cached cachedRole
			if jsonErr := json.Unmarshal(payload, &cached); jsonErr == nil {
				return toRoleGrants(cached)
			}
			// A corrupt entry falls through to the store and gets rewritten.
		} else if !errors.Is(err, redis.Nil) {
			c.logger.Warn("grant cache read failed", "err", err, "role_id", roleID)
		}
	}

	v, err, _ := c.group.Do(roleID, func() (any, error) {
		role, err := c.repo.FindByID(ctx, roleID)
		if err != nil {
			return nil, err
		}
		cached := cachedRole{Name: role.Name, Permissions: role.Permissions}
		c.store(ctx, roleID, cached)
		return cached, nil
	})
	if err != nil {
		return authz.RoleGrants{}, err
	}
	return toRoleGrants(v.(cachedRole))
}

// Invalidate drops a role's cached grants.
func (c *GrantCache) Invalidate(ctx context.Context, roleID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, grantKeyPrefix+roleID).Err()
}

// Warm loads every role into the cache. Used by the scheduled warmup job so
// steady-state requests rarely hit the store.
func (c *GrantCache) Warm(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	all, err := c.repo.ListRoles(ctx)
	if err != nil {
		return err
	}
	for _, role := range all {
		c.store(ctx, role.ID, cachedRole{Name: role.Name, Permissions: role.Permissions})
	}
	return nil
}

func (c *GrantCache) store(ctx context.Context, roleID string, cached cachedRole) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, grantKeyPrefix+roleID, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("grant cache write failed", "err", err, "role_id", roleID)
	}
}

func toRoleGrants(cached cachedRole) (authz.RoleGrants, error) {
	set, err := authz.NewGrantSet(cached.Permissions)
	if err != nil {
		return authz.RoleGrants{}, err
	}
	return authz.RoleGrants{RoleName: cached.Name, Permissions: set}, nil
}

var _ authz.GrantSource = (*GrantCache)(nil)
