// Package cache keeps rendered route payloads so repeated views skip the
// store until a mutation marks the route stale.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/zeebo/xxh3"
)

// RouteCache stores one payload per cache key. Invalidate drops every key
// belonging to a route, whatever query the payload was rendered for.
//
// Get also returns the route generation it looked under. A payload rendered
// after a miss must be stored with that generation, so a render that raced an
// invalidation lands under the old generation and is never served.
type RouteCache interface {
	Get(ctx context.Context, route, variant string) (payload []byte, generation int64, ok bool)
	Set(ctx context.Context, route string, generation int64, variant string, payload []byte) error
	Invalidate(ctx context.Context, route string) error
}

const defaultTTL = 5 * time.Minute

// ParseTTL falls back to the default for empty or malformed values.
func ParseTTL(s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultTTL
}

func routeKey(route string) string {
	return "route:" + strconv.FormatUint(xxh3.HashString(route), 16)
}

// entryKey namespaces a variant under the route's current generation, so
// bumping the generation orphans every variant at once.
func entryKey(route string, generation int64, variant string) string {
	return routeKey(route) + ":" + strconv.FormatInt(generation, 10) + ":" +
		strconv.FormatUint(xxh3.HashString(variant), 16)
}
