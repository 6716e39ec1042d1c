package cache

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

// CachedPlan represents cached plan catalog information
type CachedPlan struct {
	ID           uint
	SID          string
	Name         string
	MonthlyPrice decimal.Decimal
	Speed        string
	DataLimit    string
	Commitment   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NotFound     bool // Null marker: plan confirmed not found in DB
}

// PlanCache defines the interface for plan catalog caching
type PlanCache interface {
	GetPlan(ctx context.Context, sid string) (*CachedPlan, error)
	SetPlan(ctx context.Context, plan *CachedPlan) error
	InvalidatePlan(ctx context.Context, sid string) error
	// SetNullMarker caches a short-lived marker indicating the plan was not
	// found in DB, preventing repeated DB lookups (cache penetration protection).
	SetNullMarker(ctx context.Context, sid string) error
}

const (
	planKeyPrefix      = "billing:plan:"
	basePlanTTL        = 30 * time.Minute
	planTTLJitter      = 10 * time.Minute // TTL range: 30-40 min (anti-stampede)
	planNullMarkerTTL  = 2 * time.Minute  // Short TTL for not-found markers (anti-penetration)
	fieldPlanID        = "id"
	fieldPlanName      = "name"
	fieldPlanPrice     = "monthly_price"
	fieldPlanSpeed     = "speed"
	fieldPlanDataLimit = "data_limit"
	fieldPlanCommit    = "commitment"
	fieldPlanCreatedAt = "created_at"
	fieldPlanUpdatedAt = "updated_at"
	fieldPlanNull      = "_null"
)

// RedisPlanCache implements PlanCache using Redis Hash
type RedisPlanCache struct {
	client  *redis.Client
	logger  logger.Interface
	baseTTL time.Duration
}

// NewRedisPlanCache creates a new Redis-based plan cache. A zero ttl
// falls back to the default.
func NewRedisPlanCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisPlanCache {
	if ttl <= 0 {
		ttl = basePlanTTL
	}
	return &RedisPlanCache{
		client:  client,
		logger:  logger,
		baseTTL: ttl,
	}
}

func (c *RedisPlanCache) key(sid string) string {
	return planKeyPrefix + sid
}

// GetPlan retrieves plan information from cache
func (c *RedisPlanCache) GetPlan(ctx context.Context, sid string) (*CachedPlan, error) {
	result, err := c.client.HGetAll(ctx, c.key(sid)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get plan from cache: %w", err)
	}

	if len(result) == 0 {
		return nil, nil // Cache miss
	}

	// Detect null marker (anti-penetration)
	if result[fieldPlanNull] == "1" {
		return &CachedPlan{NotFound: true}, nil
	}

	plan := &CachedPlan{
		SID:       sid,
		Name:      result[fieldPlanName],
		Speed:     result[fieldPlanSpeed],
		DataLimit: result[fieldPlanDataLimit],
	}

	if idStr, ok := result[fieldPlanID]; ok {
		id, _ := strconv.ParseUint(idStr, 10, 64)
		plan.ID = uint(id)
	}

	if priceStr, ok := result[fieldPlanPrice]; ok {
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt cached plan price %q: %w", priceStr, err)
		}
		plan.MonthlyPrice = price
	}

	if commitStr, ok := result[fieldPlanCommit]; ok {
		plan.Commitment = commitStr
	}

	if createdStr, ok := result[fieldPlanCreatedAt]; ok {
		createdUnix, _ := strconv.ParseInt(createdStr, 10, 64)
		plan.CreatedAt = time.Unix(createdUnix, 0).UTC()
	}

	if updatedStr, ok := result[fieldPlanUpdatedAt]; ok {
		updatedUnix, _ := strconv.ParseInt(updatedStr, 10, 64)
		plan.UpdatedAt = time.Unix(updatedUnix, 0).UTC()
	}

	return plan, nil
}

// SetPlan stores plan information in cache
func (c *RedisPlanCache) SetPlan(ctx context.Context, plan *CachedPlan) error {
	key := c.key(plan.SID)

	fields := map[string]interface{}{
		fieldPlanID:        plan.ID,
		fieldPlanName:      plan.Name,
		fieldPlanPrice:     plan.MonthlyPrice.String(),
		fieldPlanSpeed:     plan.Speed,
		fieldPlanDataLimit: plan.DataLimit,
		fieldPlanCommit:    plan.Commitment,
		fieldPlanCreatedAt: plan.CreatedAt.Unix(),
		fieldPlanUpdatedAt: plan.UpdatedAt.Unix(),
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, c.ttlWithJitter())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set plan in cache: %w", err)
	}

	c.logger.Debugw("plan cached",
		"plan_sid", plan.SID,
		"name", plan.Name,
	)

	return nil
}

// InvalidatePlan removes plan information from cache
func (c *RedisPlanCache) InvalidatePlan(ctx context.Context, sid string) error {
	if err := c.client.Del(ctx, c.key(sid)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate plan cache: %w", err)
	}

	c.logger.Debugw("plan cache invalidated", "plan_sid", sid)
	return nil
}

// SetNullMarker stores a short-lived marker indicating that the plan was
// not found in DB.
func (c *RedisPlanCache) SetNullMarker(ctx context.Context, sid string) error {
	key := c.key(sid)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fieldPlanNull, "1")
	pipe.Expire(ctx, key, planNullMarkerTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set null marker in cache: %w", err)
	}

	c.logger.Debugw("plan null marker set", "plan_sid", sid, "ttl", planNullMarkerTTL)
	return nil
}

// ttlWithJitter returns a randomized TTL to prevent cache stampede.
func (c *RedisPlanCache) ttlWithJitter() time.Duration {
	jitter := time.Duration(rand.Int64N(int64(planTTLJitter)))
	return c.baseTTL + jitter
}

// CachedPlanReader is a read-through decorator over the plan repository.
// Cache failures degrade to direct DB reads; they never fail the request.
type CachedPlanReader struct {
	repo   billing.PlanRepository
	cache  PlanCache
	logger logger.Interface
}

func NewCachedPlanReader(repo billing.PlanRepository, cache PlanCache, logger logger.Interface) *CachedPlanReader {
	return &CachedPlanReader{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (r *CachedPlanReader) FindBySID(ctx context.Context, sid string) (*billing.Plan, error) {
	cached, err := r.cache.GetPlan(ctx, sid)
	if err != nil {
		r.logger.Warnw("plan cache read failed, falling back to DB", "error", err, "plan_sid", sid)
	} else if cached != nil {
		if cached.NotFound {
			return nil, billing.ErrPlanNotFound
		}
		plan, err := billing.ReconstructPlan(
			cached.ID,
			cached.SID,
			cached.Name,
			cached.MonthlyPrice,
			cached.Speed,
			cached.DataLimit,
			vo.CommitmentPeriod(cached.Commitment),
			cached.CreatedAt,
			cached.UpdatedAt,
		)
		if err == nil {
			return plan, nil
		}
		r.logger.Warnw("corrupt cached plan, falling back to DB", "error", err, "plan_sid", sid)
	}

	plan, err := r.repo.FindBySID(ctx, sid)
	if err != nil {
		if err == billing.ErrPlanNotFound {
			if markerErr := r.cache.SetNullMarker(ctx, sid); markerErr != nil {
				r.logger.Warnw("failed to set plan null marker", "error", markerErr, "plan_sid", sid)
			}
		}
		return nil, err
	}

	if cacheErr := r.cache.SetPlan(ctx, &CachedPlan{
		ID:           plan.ID(),
		SID:          plan.SID(),
		Name:         plan.Name(),
		MonthlyPrice: plan.MonthlyPrice(),
		Speed:        plan.Speed(),
		DataLimit:    plan.DataLimit(),
		Commitment:   plan.Commitment().String(),
		CreatedAt:    plan.CreatedAt(),
		UpdatedAt:    plan.UpdatedAt(),
	}); cacheErr != nil {
		r.logger.Warnw("failed to cache plan", "error", cacheErr, "plan_sid", sid)
	}

	return plan, nil
}
