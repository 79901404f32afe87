package usecase

import (
	"context"
	"time"

	"facility-rental/internal/data/repository"
	"facility-rental/internal/engine/availability"
	"facility-rental/internal/engine/calendar"
	"facility-rental/internal/engine/gallery"
	"facility-rental/internal/engine/hours"
	"facility-rental/internal/engine/pricing"
	"facility-rental/pkg/cache"
	"facility-rental/pkg/queue"
	"facility-rental/pkg/utils"

	"go.uber.org/zap"
)

// Limiter is the per-applicant submission throttle.
type Limiter interface {
	Allow(key string) bool
}

// Infra groups the outside services the use cases talk to.
type Infra struct {
	Cache     cache.Cache
	Publisher queue.Publisher
	Limiter   Limiter
	Tokens    *utils.TokenManager
	Clock     calendar.Clock
}

// Engines bundles the pure rule engines configured for this facility.
type Engines struct {
	Catalog      *RoomCatalog
	Policy       hours.Policy
	Clock        calendar.Clock
	Availability *availability.Engine
	Gallery      *gallery.Generator
	Pricing      *pricing.Engine
}

func NewEngines(catalog *RoomCatalog, clock calendar.Clock, slotMinutes int) *Engines {
	policy := hours.DefaultPolicy()
	gen := gallery.NewGenerator(policy, gallery.DefaultRates())
	return &Engines{
		Catalog:      catalog,
		Policy:       policy,
		Clock:        clock,
		Availability: availability.NewEngine(catalog, policy, clock, slotMinutes),
		Gallery:      gen,
		Pricing:      pricing.NewEngine(catalog, gen, pricing.DefaultEquipment()),
	}
}

func (e *Engines) today() calendar.Date {
	return calendar.Today(e.Clock)
}

type Service struct {
	Room         RoomService
	Availability AvailabilityService
	Rental       RentalService
	Admin        AdminService
	Block        BlockService
	Schedule     ScheduleService
	Auth         AuthService
}

func NewService(repo *repository.Repository, engines *Engines, infra Infra, config *utils.Config, log *zap.Logger) *Service {
	invalidator := &cacheInvalidator{cache: infra.Cache, settle: invalidationSettle, log: log}
	return &Service{
		Room:         NewRoomService(engines, log),
		Availability: NewAvailabilityService(repo, engines, infra.Cache, log),
		Rental:       NewRentalService(repo, engines, infra, invalidator, log),
		Admin:        NewAdminService(repo, engines, infra, invalidator, log),
		Block:        NewBlockService(repo, engines, invalidator, log),
		Schedule:     NewScheduleService(repo, engines, invalidator, log),
		Auth:         NewAuthService(config.Staff, infra.Tokens, log),
	}
}

// invalidationSettle is how long after a write the availability cache is
// cleared a second time. A read that loaded its snapshot before the commit
// can still store its result after the first delete.
const invalidationSettle = 500 * time.Millisecond

// cacheInvalidator drops cached availability after a committed write.
type cacheInvalidator struct {
	cache  cache.Cache
	settle time.Duration
	log    *zap.Logger
}

// invalidate clears roomID on each date. An empty roomID means every room,
// no dates means every date.
func (c *cacheInvalidator) invalidate(ctx context.Context, roomID string, dates ...string) {
	patterns := []string{cache.AvailabilityPattern(roomID, "")}
	if len(dates) > 0 {
		patterns = patterns[:0]
		for _, d := range dates {
			patterns = append(patterns, cache.AvailabilityPattern(roomID, d))
		}
	}

	ctx = context.WithoutCancel(ctx)
	c.drop(ctx, patterns)
	if c.settle > 0 {
		time.AfterFunc(c.settle, func() { c.drop(ctx, patterns) })
	}
}

func (c *cacheInvalidator) drop(ctx context.Context, patterns []string) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	for _, p := range patterns {
		if err := c.cache.DeleteMatch(ctx, p); err != nil {
			c.log.Warn("Failed to invalidate availability cache", zap.String("pattern", p), zap.Error(err))
		}
	}
}
