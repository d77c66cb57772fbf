package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
)

const redisKeyPrefix = "rules:active:"

// Redis is the distributed VersionCache for multi-instance deployments.
// Failures degrade to cache misses; the store remains the source of truth.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis constructs a Redis-backed cache (DefaultTTL when ttl is zero).
func NewRedis(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// redisVersion is the cached wire shape: IDs as strings, times in RFC 3339.
type redisVersion struct {
	ID             string     `json:"id"`
	OrgID          *string    `json:"org_id,omitempty"`
	Name           string     `json:"name"`
	EffectiveStart time.Time  `json:"effective_start"`
	EffectiveEnd   *time.Time `json:"effective_end,omitempty"`
	Status         string     `json:"status"`
	SourceIDs      []string   `json:"source_ids,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (c *Redis) Get(ctx context.Context, orgID id.OrgID, asOf time.Time) (*models.RuleVersion, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+cacheKey(orgID, asOf)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "version cache read failed", "error", err)
		return nil, false
	}

	var dto redisVersion
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		c.logger.WarnContext(ctx, "version cache entry malformed", "error", err)
		return nil, false
	}

	versionID, err := id.ParseVersionID(dto.ID)
	if err != nil {
		return nil, false
	}
	v := &models.RuleVersion{
		ID:             versionID,
		Name:           dto.Name,
		EffectiveStart: dto.EffectiveStart,
		EffectiveEnd:   dto.EffectiveEnd,
		Status:         models.VersionStatus(dto.Status),
		CreatedAt:      dto.CreatedAt,
	}
	for _, raw := range dto.SourceIDs {
		u, err := uuid.Parse(raw)
		if err != nil {
			return nil, false
		}
		v.SourceIDs = append(v.SourceIDs, id.SourceID(u))
	}
	if dto.OrgID != nil {
		parsed, err := id.ParseOrgID(*dto.OrgID)
		if err != nil {
			return nil, false
		}
		v.OrgID = &parsed
	}
	return v, true
}

func (c *Redis) Set(ctx context.Context, orgID id.OrgID, asOf time.Time, v *models.RuleVersion) {
	if v == nil {
		return
	}
	dto := redisVersion{
		ID:             v.ID.String(),
		Name:           v.Name,
		EffectiveStart: v.EffectiveStart,
		EffectiveEnd:   v.EffectiveEnd,
		Status:         string(v.Status),
		CreatedAt:      v.CreatedAt,
	}
	for _, sid := range v.SourceIDs {
		dto.SourceIDs = append(dto.SourceIDs, sid.String())
	}
	if v.OrgID != nil {
		s := v.OrgID.String()
		dto.OrgID = &s
	}

	data, err := json.Marshal(dto)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+cacheKey(orgID, asOf), data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "version cache write failed", "error", err)
	}
}

func (c *Redis) Invalidate(ctx context.Context, orgID id.OrgID) {
	pattern := redisKeyPrefix + orgID.String() + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.WarnContext(ctx, "version cache invalidate failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.WarnContext(ctx, "version cache scan failed", "error", err)
	}
}
