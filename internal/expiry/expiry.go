// Package expiry sizes cache TTLs from the next real-world event instead of a
// fixed duration.
package expiry

import (
	"fmt"
	"math"
	"time"
)

// DefaultGrace is how long data keeps settling after an event starts.
const DefaultGrace = 4 * time.Hour

const (
	// LongFallback is used when a horizon lookup fails.
	LongFallback = time.Hour
	// ShortFallback is used for lookups that may resolve again soon.
	ShortFallback = 5 * time.Minute
)

// Kind tells whether a horizon was resolved.
type Kind int

const (
	// KindUnknown means the lookup worked but nothing is scheduled.
	KindUnknown Kind = iota
	// KindKnown carries a timestamp.
	KindKnown
	// KindFailed means the lookup or a timestamp parse failed.
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindKnown:
		return "horizon"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Horizon is the result of looking up the event a cache entry should outlive.
type Horizon struct {
	Kind   Kind
	At     time.Time
	Reason string
	Err    error
}

// Known returns a resolved horizon at t.
func Known(t time.Time) Horizon {
	return Horizon{Kind: KindKnown, At: t}
}

// Unknown returns a horizon for "nothing upcoming".
func Unknown(reason string) Horizon {
	return Horizon{Kind: KindUnknown, Reason: reason}
}

// Failed returns a horizon for a failed lookup.
func Failed(err error) Horizon {
	return Horizon{Kind: KindFailed, Err: err}
}

func (h Horizon) String() string {
	switch h.Kind {
	case KindKnown:
		return h.At.Format(time.RFC3339)
	case KindFailed:
		return fmt.Sprintf("failed: %v", h.Err)
	default:
		return "unknown: " + h.Reason
	}
}

// Fallback holds the TTLs used when no horizon is available.
type Fallback struct {
	Unknown time.Duration
	Failed  time.Duration
}

// Decision is the outcome of Policy.Decide.
type Decision struct {
	TTL       time.Duration
	ExpiresAt time.Time
	Source    Kind
}

// Policy turns a Horizon into a TTL.
type Policy struct {
	Grace    time.Duration
	Fallback Fallback
	Now      func() time.Time
}

// Decide returns TTL = max(0, floor(T + Grace - now)) in whole seconds for a
// known horizon, and the matching fallback otherwise.
func (p Policy) Decide(h Horizon) Decision {
	now := p.now()
	switch h.Kind {
	case KindKnown:
		if h.At.IsZero() {
			return p.fallback(now, p.Fallback.Failed, KindFailed)
		}
		expires := h.At.Add(p.Grace)
		secs := math.Floor(expires.Sub(now).Seconds())
		if secs < 0 {
			secs = 0
		}
		return Decision{TTL: time.Duration(secs) * time.Second, ExpiresAt: expires, Source: KindKnown}
	case KindFailed:
		return p.fallback(now, p.Fallback.Failed, KindFailed)
	default:
		return p.fallback(now, p.Fallback.Unknown, KindUnknown)
	}
}

func (p Policy) fallback(now time.Time, ttl time.Duration, src Kind) Decision {
	return Decision{TTL: ttl, ExpiresAt: now.Add(ttl), Source: src}
}

func (p Policy) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
