package pulse

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
	"github.com/cjblain10/tx-sentiment-landscape/internal/logger"
	"github.com/cjblain10/tx-sentiment-landscape/internal/service/aggregate"
	"github.com/cjblain10/tx-sentiment-landscape/internal/service/history"
	"github.com/cjblain10/tx-sentiment-landscape/internal/service/tagging"
)

// Supplier yields a snapshot or (nil, nil) when it has nothing to offer.
// The service tries its suppliers in order until one yields a result, so
// the fallback order is data, not control flow.
type Supplier func(ctx context.Context) (*sentiment.DailySnapshot, error)

// ServiceConfig contains configuration for the pulse service.
type ServiceConfig struct {
	RefreshInterval time.Duration
	EventsSubject   string
	DefaultDays     int
	MaxDays         int
}

// Service owns the collect-tag-aggregate cycle and serves the resulting
// snapshot. The served value is replaced whole on refresh; readers never
// observe a partially built snapshot.
type Service struct {
	collector sentiment.Collector
	store     sentiment.SnapshotStore
	tagger    *tagging.Tagger
	builder   *aggregate.Builder
	demo      *history.Generator
	events    *nats.Conn
	config    ServiceConfig
	log       *logger.Logger

	suppliers []Supplier

	mu      sync.RWMutex
	current *sentiment.DailySnapshot

	cancel context.CancelFunc
	wg     sync.WaitGroup

	// now is swappable for tests
	now func() time.Time
}

// NewService creates the pulse service. The NATS connection may be nil,
// in which case snapshot events are not published. The collector and
// store may also be nil for demo-only deployments.
func NewService(
	collector sentiment.Collector,
	store sentiment.SnapshotStore,
	tagger *tagging.Tagger,
	builder *aggregate.Builder,
	demo *history.Generator,
	events *nats.Conn,
	config ServiceConfig,
	log *logger.Logger,
) *Service {
	if config.DefaultDays <= 0 {
		config.DefaultDays = 30
	}
	if config.MaxDays <= 0 {
		config.MaxDays = 365
	}

	s := &Service{
		collector: collector,
		store:     store,
		tagger:    tagger,
		builder:   builder,
		demo:      demo,
		events:    events,
		config:    config,
		log:       log.WithComponent("pulse"),
		now:       time.Now,
	}

	// Fallback order: fresh collection, then cached, then demo.
	s.suppliers = []Supplier{s.fromLive, s.fromCache, s.fromDemo}

	return s
}

// Start runs an immediate refresh and then keeps refreshing on the
// configured interval until the context is cancelled.
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.Refresh(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.config.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Refresh(ctx)
			}
		}
	}()
}

// Stop stops the refresh loop and waits for it to finish.
func (s *Service) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Today returns the current snapshot, refreshing first if none is held.
// It never fails: the demo supplier always yields.
func (s *Service) Today(ctx context.Context) *sentiment.DailySnapshot {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current != nil {
		return current
	}
	return s.Refresh(ctx)
}

// History returns the deterministic trend series, oldest first. The day
// count is clamped to [1, MaxDays]; zero or negative uses the default.
func (s *Service) History(days int) []sentiment.HistoryPoint {
	if days <= 0 {
		days = s.config.DefaultDays
	}
	if days > s.config.MaxDays {
		days = s.config.MaxDays
	}
	return s.demo.History(s.now(), days)
}

// Refresh walks the supplier chain and publishes the first snapshot it
// gets.
func (s *Service) Refresh(ctx context.Context) *sentiment.DailySnapshot {
	for _, supply := range s.suppliers {
		snap, err := supply(ctx)
		if err != nil {
			s.log.WithError(err).Warn("snapshot supplier failed, trying next")
			continue
		}
		if snap == nil {
			continue
		}

		s.mu.Lock()
		s.current = snap
		s.mu.Unlock()
		return snap
	}

	// Unreachable as long as the demo supplier is wired.
	return nil
}

// fromLive collects, tags and aggregates fresh posts. An empty collection
// yields (nil, nil) so the chain moves on.
func (s *Service) fromLive(ctx context.Context) (*sentiment.DailySnapshot, error) {
	if s.collector == nil {
		return nil, nil
	}

	posts, err := s.collector.FetchPosts(ctx)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		s.log.Info("collection returned no posts")
		return nil, nil
	}

	tagged := make([]sentiment.TaggedPost, 0, len(posts))
	skipped := 0
	for _, p := range posts {
		if p.IsMalformed() {
			skipped++
			continue
		}
		tagged = append(tagged, s.tagger.Tag(p))
	}
	if skipped > 0 {
		s.log.WithField("skipped", skipped).Warn("skipped malformed posts")
	}
	if len(tagged) == 0 {
		return nil, nil
	}

	now := s.now()
	snap := s.builder.Build(tagged, s.previousSnapshot(ctx, now), now, s.collector.Platform())

	if s.store != nil {
		if err := s.store.Save(ctx, snap); err != nil {
			s.log.WithError(err).Warn("failed to cache snapshot")
		}
	}
	s.publish(snap)

	s.log.WithField("total_volume", snap.TotalVolume).
		WithField("topics", len(snap.Topics)).
		Info("built fresh snapshot")
	return snap, nil
}

// fromCache serves the last known good snapshot, flagged stale.
func (s *Service) fromCache(ctx context.Context) (*sentiment.DailySnapshot, error) {
	if s.store == nil {
		return nil, nil
	}

	cached, err := s.store.Load(ctx)
	if err != nil || cached == nil {
		return nil, err
	}

	snap := cached.Snapshot
	snap.Stale = true
	snap.CachedAt = cached.CachedAt.UTC().Format(time.RFC3339)

	s.log.WithField("cached_at", snap.CachedAt).Info("serving cached snapshot")
	return &snap, nil
}

// fromDemo always yields: deterministic synthetic data for today.
func (s *Service) fromDemo(ctx context.Context) (*sentiment.DailySnapshot, error) {
	s.log.Info("serving demo snapshot")
	return s.demo.DemoSnapshot(s.now()), nil
}

// previousSnapshot returns the stored snapshot for delta computation,
// but only when it is from an earlier day. A same-day rebuild must not
// produce a delta against itself.
func (s *Service) previousSnapshot(ctx context.Context, now time.Time) *sentiment.DailySnapshot {
	if s.store == nil {
		return nil
	}

	cached, err := s.store.Load(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to load previous snapshot")
		return nil
	}
	if cached == nil {
		return nil
	}
	if cached.Snapshot.Date == now.UTC().Format("2006-01-02") {
		return nil
	}
	return &cached.Snapshot
}

func (s *Service) publish(snap *sentiment.DailySnapshot) {
	if s.events == nil || s.config.EventsSubject == "" {
		return
	}

	data, err := json.Marshal(snap)
	if err != nil {
		s.log.WithError(err).Warn("failed to marshal snapshot event")
		return
	}
	if err := s.events.Publish(s.config.EventsSubject, data); err != nil {
		s.log.WithError(err).Warn("failed to publish snapshot event")
	}
}
