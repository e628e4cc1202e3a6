package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/totegamma/invoicedash/internal/infra/cache"
)

// Invalidator marks a route's cached render stale and tells listeners.
type Invalidator struct {
	cache  cache.RouteCache
	signal *SignalService
}

func NewInvalidator(routeCache cache.RouteCache, signal *SignalService) *Invalidator {
	return &Invalidator{cache: routeCache, signal: signal}
}

// Revalidate never fails the caller: the mutation it follows is already
// committed, so problems are only logged.
func (i *Invalidator) Revalidate(ctx context.Context, route string) {
	ctx, span := tracer.Start(ctx, "Cache.Service.Revalidate")
	defer span.End()

	if i.cache != nil {
		if err := i.cache.Invalidate(ctx, route); err != nil {
			span.RecordError(err)
			slog.WarnContext(
				ctx, "Failed to invalidate route cache",
				slog.String("route", route),
				slog.String("error", err.Error()),
				slog.String("module", "cache"),
			)
		}
	}

	if err := i.signal.Publish(ctx, Invalidation{Route: route, At: time.Now().UTC()}); err != nil {
		span.RecordError(err)
		slog.WarnContext(
			ctx, "Failed to publish invalidation",
			slog.String("route", route),
			slog.String("error", err.Error()),
			slog.String("module", "signal"),
		)
	}
}
