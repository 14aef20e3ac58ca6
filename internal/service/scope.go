package service

import (
	"context"

	"github.com/harsh-0015/freelance-tracker/internal/models"
)

type freelancerScopeKey struct{}

// WithFreelancer restricts the services called with the returned context to
// one freelancer's time entries and invoices. Records of other freelancers
// are filtered from lists and reported as not found by ID.
func WithFreelancer(ctx context.Context, freelancerID string) context.Context {
	if freelancerID == "" {
		return ctx
	}
	return context.WithValue(ctx, freelancerScopeKey{}, freelancerID)
}

// scopedFreelancer returns the freelancer ctx is restricted to, or "".
func scopedFreelancer(ctx context.Context) string {
	id, _ := ctx.Value(freelancerScopeKey{}).(string)
	return id
}

// visibleTo reports whether a record owned by freelancerID may be seen
// under ctx. Unscoped contexts see everything.
func visibleTo(ctx context.Context, freelancerID string) bool {
	scope := scopedFreelancer(ctx)
	return scope == "" || scope == freelancerID
}

func visibleEntries(ctx context.Context, entries []*models.TimeEntry) []*models.TimeEntry {
	if scopedFreelancer(ctx) == "" {
		return entries
	}
	kept := entries[:0:0]
	for _, e := range entries {
		if visibleTo(ctx, e.FreelancerID) {
			kept = append(kept, e)
		}
	}
	return kept
}

func visibleInvoices(ctx context.Context, invoices []*models.Invoice) []*models.Invoice {
	if scopedFreelancer(ctx) == "" {
		return invoices
	}
	kept := invoices[:0:0]
	for _, inv := range invoices {
		if visibleTo(ctx, inv.FreelancerID) {
			kept = append(kept, inv)
		}
	}
	return kept
}
