package feed

import (
	"context"
	"time"

	"github.com/aaron/pitwall/internal/expiry"
	"github.com/aaron/pitwall/internal/logging"
	"github.com/aaron/pitwall/internal/metrics"
)

// document is implemented by every cached value.
type document interface {
	SetCacheExpires(t time.Time)
}

// descriptor configures one endpoint pipeline.
type descriptor[T document] struct {
	key      string
	fallback expiry.Fallback
	// build fetches and reshapes the document on a cache miss.
	build func(ctx context.Context) (T, error)
	// horizon picks the event the cached document should outlive.
	horizon func(ctx context.Context, doc T) expiry.Horizon
}

// resolve runs cache lookup, then on a miss build, horizon and expiry, and
// stores the result. Only build errors are returned; horizon problems fall
// back to the descriptor's TTLs.
func resolve[T document](ctx context.Context, s *Service, d descriptor[T]) (T, error) {
	if v, ok := s.cache.Get(d.key); ok {
		if doc, ok := v.(T); ok {
			return doc, nil
		}
	}

	doc, err := d.build(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	h := d.horizon(ctx, doc)
	decision := s.policy(d.fallback).Decide(h)
	doc.SetCacheExpires(decision.ExpiresAt.In(s.loc))
	s.cache.Set(d.key, doc, decision.TTL)

	metrics.RecordCacheTTL(d.key, decision.Source.String(), decision.TTL)
	event := logging.Ctx(ctx).Info().
		Str("key", d.key).
		Str("source", decision.Source.String()).
		Dur("ttl", decision.TTL).
		Time("expires_at", decision.ExpiresAt)
	if h.Kind != expiry.KindKnown {
		event = event.Str("horizon", h.String())
	}
	event.Msg("Cached response")

	return doc, nil
}
