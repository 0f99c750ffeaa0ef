// Package shortlist manages the list of influencers saved for a campaign.
package shortlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"spykes/internal/domain/identity"
	"spykes/internal/domain/influencer"
)

// ErrMissingHandle is returned when Add is called with a blank handle
var ErrMissingHandle = errors.New("handle is required")

// Store is what the shortlist needs from storage
type Store interface {
	influencer.ShortlistStore
	ResolveInfluencer(ctx context.Context, handle string) (string, error)
}

// Service adds to and lists the shortlist
type Service struct {
	store Store
	log   *zap.SugaredLogger
}

// NewService creates a new shortlist service
func NewService(store Store, log *zap.SugaredLogger) *Service {
	return &Service{store: store, log: log}
}

// Add shortlists the influencer with the given handle. Adding the same
// handle again succeeds without creating a second entry.
func (s *Service) Add(ctx context.Context, handle string) error {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return ErrMissingHandle
	}

	id, err := s.store.ResolveInfluencer(ctx, handle)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return fmt.Errorf("influencer %q: %w", handle, identity.ErrNotFound)
		}
		return fmt.Errorf("resolve influencer %q: %w", handle, err)
	}

	if err := s.store.AddShortlistItem(ctx, id); err != nil {
		return fmt.Errorf("shortlist %q: %w", handle, err)
	}

	s.log.Infow("Influencer shortlisted", "handle", handle)
	return nil
}

// List returns shortlisted influencers ordered like the influencer list
func (s *Service) List(ctx context.Context) ([]influencer.Summary, error) {
	items, err := s.store.ListShortlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shortlist: %w", err)
	}
	return items, nil
}
