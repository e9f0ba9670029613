// Package catalog holds the in-memory directory snapshot per tenant and
// coordinates refreshes from the published sheets.
//
// Concurrent refreshes for the same tenant do not coordinate in flight;
// instead each refresh carries a monotonically increasing token and a
// response is discarded if a newer refresh has already committed. A slow
// stale fetch can therefore never overwrite fresher data.
package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"town-connect/internal/common/logger"
	"town-connect/internal/common/metrics"
	"town-connect/internal/common/observability"
	"town-connect/internal/directory/listing"
	"town-connect/internal/sheets"
	"town-connect/internal/tenant"
)

// Snapshot is one immutable view of a tenant's directory data.
type Snapshot struct {
	Businesses []listing.BusinessRecord
	Emergency  []listing.EmergencyService
	FetchedAt  time.Time
}

type tenantState struct {
	mu sync.RWMutex

	// issued is the token handed to the most recent refresh; committed
	// is the token of the snapshot currently visible. committed never
	// decreases.
	issued    atomic.Uint64
	committed uint64
	snapshot  *Snapshot
}

// Service fetches, parses, classifies, and town-filters directory data,
// keeping the latest snapshot per tenant slug.
type Service struct {
	provider sheets.Provider
	logger   logger.Logger

	// maxAge bounds how long a committed snapshot is served before the
	// provider is consulted again. Zero means every read refreshes and
	// the provider's own cache absorbs the load.
	maxAge time.Duration

	mu     sync.Mutex
	states map[string]*tenantState
}

func NewService(provider sheets.Provider, maxAge time.Duration, log logger.Logger) *Service {
	return &Service{
		provider: provider,
		maxAge:   maxAge,
		logger:   log,
		states:   make(map[string]*tenantState),
	}
}

func (s *Service) fresh(snap *Snapshot) bool {
	return snap != nil && s.maxAge > 0 && time.Since(snap.FetchedAt) < s.maxAge
}

func (s *Service) state(slug string) *tenantState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[slug]
	if !ok {
		st = &tenantState{}
		s.states[slug] = st
	}
	return st
}

// Refresh fetches the tenant's sheets and publishes a new snapshot,
// unless a refresh issued later has already committed. It returns the
// snapshot it built regardless, so the caller that triggered it can
// still serve fresh data to its own request.
func (s *Service) Refresh(ctx context.Context, cfg *tenant.Config) (*Snapshot, error) {
	ctx, span := observability.Tracer().Start(ctx, "catalog.refresh")
	span.SetAttributes(attribute.String("tenant", cfg.Slug))
	defer span.End()

	st := s.state(cfg.Slug)
	token := st.issued.Add(1)

	body, err := s.provider.Fetch(ctx, cfg.Sheets.Businesses)
	if err != nil {
		return nil, err
	}

	parsed := listing.ParseBusinesses(body)
	businesses := listing.FilterByTown(parsed, cfg.Town)
	metrics.RowsParsed.WithLabelValues("businesses", cfg.Slug).Add(float64(len(parsed)))

	var emergency []listing.EmergencyService
	if cfg.Sheets.Emergency != "" {
		emBody, err := s.provider.Fetch(ctx, cfg.Sheets.Emergency)
		if err != nil {
			// Emergency data is supplementary; keep serving businesses.
			s.logger.Warn("emergency sheet fetch failed", map[string]interface{}{
				"tenant": cfg.Slug,
				"error":  err.Error(),
			})
		} else {
			emergency = listing.FilterEmergencyByTown(listing.ParseEmergencyServices(emBody), cfg.Town)
		}
	}

	snap := &Snapshot{
		Businesses: businesses,
		Emergency:  emergency,
		FetchedAt:  time.Now().UTC(),
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if token <= st.committed {
		metrics.StaleRefreshesDiscarded.WithLabelValues(cfg.Slug).Inc()
		s.logger.Debug("stale refresh discarded", map[string]interface{}{
			"tenant":    cfg.Slug,
			"token":     token,
			"committed": st.committed,
		})
		return snap, nil
	}
	st.committed = token
	st.snapshot = snap

	return snap, nil
}

// Snapshot returns the latest committed snapshot for a tenant, or nil
// when no refresh has succeeded yet.
func (s *Service) Snapshot(slug string) *Snapshot {
	st := s.state(slug)
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.snapshot
}

// Businesses returns the tenant's business list, refreshing when no
// snapshot exists or the committed one has outlived maxAge.
func (s *Service) Businesses(ctx context.Context, cfg *tenant.Config) ([]listing.BusinessRecord, error) {
	if snap := s.Snapshot(cfg.Slug); s.fresh(snap) {
		return snap.Businesses, nil
	}
	snap, err := s.Refresh(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return snap.Businesses, nil
}

// Emergency returns the tenant's emergency services, refreshing when no
// snapshot exists or the committed one has outlived maxAge.
func (s *Service) Emergency(ctx context.Context, cfg *tenant.Config) ([]listing.EmergencyService, error) {
	if snap := s.Snapshot(cfg.Slug); s.fresh(snap) {
		return snap.Emergency, nil
	}
	snap, err := s.Refresh(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return snap.Emergency, nil
}
