// Package network walks the referral graph. The graph is kept as
// {partner_id -> referrer_id} lookups against the store rather than an
// in-memory pointer structure, so the store stays the single source of truth
// and cycles are cheap to detect.
package network

import (
	"context"

	"github.com/google/uuid"
)

// DefaultMaxDepth is a safety bound on upline walks, not a business rule.
// Real chains are far shorter.
const DefaultMaxDepth = 10_000

// ReferrerSource resolves one hop of the referral chain.
type ReferrerSource interface {
	// ReferrerOf returns the referrer of the given partner, or nil for roots
	// and unknown partners.
	ReferrerOf(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
}

// Upline returns the ancestor chain of a partner, starting at the immediate
// referrer and ending at the root. A previously-seen id ends the walk (cycle
// guard), as does maxDepth. maxDepth <= 0 means DefaultMaxDepth.
func Upline(ctx context.Context, src ReferrerSource, partnerID uuid.UUID, maxDepth int) ([]uuid.UUID, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	seen := map[uuid.UUID]struct{}{partnerID: {}}
	var chain []uuid.UUID

	current := partnerID
	for len(chain) < maxDepth {
		ref, err := src.ReferrerOf(ctx, current)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			break
		}
		if _, ok := seen[*ref]; ok {
			break
		}
		seen[*ref] = struct{}{}
		chain = append(chain, *ref)
		current = *ref
	}

	return chain, nil
}
