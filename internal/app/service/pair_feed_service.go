package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"pair_screener/internal/app/port"
	"pair_screener/internal/domain/entity"
	"pair_screener/internal/pkg/metrics"

	"github.com/google/uuid"
)

// PairFeedOptions configures a PairFeedService.
type PairFeedOptions struct {
	// SourceName is used in error messages and logs.
	SourceName  string
	DefaultSort entity.SortKey
	// MaxRetries is the number of extra attempts after a failed fetch. Zero disables retrying.
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// pairFeedServiceImpl implements port.PairFeed.
type pairFeedServiceImpl struct {
	source    port.PairSource
	logger    port.Logger
	opts      PairFeedOptions
	now       func() time.Time
	observers []port.FeedObserver

	// notifyMu orders observer delivery. It is taken before mu is released
	// so views reach observers in the order they were computed.
	notifyMu sync.Mutex

	mu          sync.RWMutex
	records     []entity.PairRecord
	filter      entity.FilterSpec
	sortKey     entity.SortKey
	inFlight    int
	lastErr     error
	lastErrAt   time.Time
	lastUpdated time.Time
	cycleID     string
	view        entity.FeedView
}

// NewPairFeedService creates a feed over the given data source. The returned
// feed starts empty; call Fetch or RunAutoRefresh to populate it.
func NewPairFeedService(source port.PairSource, l port.Logger, opts PairFeedOptions, observers ...port.FeedObserver) port.PairFeed {
	if opts.DefaultSort == "" || !opts.DefaultSort.Valid() {
		opts.DefaultSort = entity.DefaultSortKey
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &pairFeedServiceImpl{
		source:    source,
		logger:    l,
		opts:      opts,
		now:       now,
		observers: observers,
		sortKey:   opts.DefaultSort,
	}
	s.recomputeLocked()
	return s
}

// Fetch implements port.PairFeed.
func (s *pairFeedServiceImpl) Fetch(ctx context.Context) {
	s.mu.Lock()
	s.inFlight++
	s.recomputeLocked()
	s.publishAndUnlock()

	cycleID := uuid.New().String()
	start := time.Now()
	s.logger.Debug("Fetching pairs", "cycle_id", cycleID, "source", s.opts.SourceName)

	records, err := s.fetchWithRetry(ctx, cycleID)
	took := time.Since(start)

	s.mu.Lock()
	s.inFlight--
	if err != nil {
		s.lastErr = &entity.DataSourceError{Source: s.opts.SourceName, Err: err}
		s.lastErrAt = s.now()
		metrics.ObserveFetch(metrics.OutcomeFailure, took)
		s.logger.Error("Pair fetch failed, keeping previous record set",
			"cycle_id", cycleID,
			"previous_count", len(s.records),
			"took", took,
			"error", err)
	} else {
		// Whichever fetch completes last overwrites the record set.
		s.records = records
		s.lastErr = nil
		s.lastErrAt = time.Time{}
		s.lastUpdated = s.now()
		s.cycleID = cycleID
		metrics.ObserveFetch(metrics.OutcomeSuccess, took)
		s.logger.Info("Pairs fetched", "cycle_id", cycleID, "count", len(records), "took", took)
	}
	s.recomputeLocked()
	s.publishAndUnlock()
}

// Refresh implements port.PairFeed.
func (s *pairFeedServiceImpl) Refresh(ctx context.Context) {
	s.Fetch(ctx)
}

func (s *pairFeedServiceImpl) fetchWithRetry(ctx context.Context, cycleID string) ([]entity.PairRecord, error) {
	var lastErr error
	for attempt := 0; attempt <= s.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(attempt-1, s.opts.RetryBaseDelay, s.opts.RetryMaxDelay)
			s.logger.Warn("Retrying pair fetch", "cycle_id", cycleID, "attempt", attempt, "delay", delay, "error", lastErr)
			if err := sleepContext(ctx, delay); err != nil {
				return nil, fmt.Errorf("retry aborted after %d attempts: %w", attempt, errors.Join(lastErr, err))
			}
		}

		records, err := s.listPairs(ctx)
		if err == nil {
			return records, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (s *pairFeedServiceImpl) listPairs(ctx context.Context) (records []entity.PairRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("data source panicked: %v", r)
		}
	}()

	records, err = s.source.ListPairs(ctx)
	if err != nil {
		return nil, err
	}
	if err := entity.ValidatePairRecords(records); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	// Own the slice so later mutations by the source do not leak in.
	return slices.Clone(records), nil
}

// SetFilter implements port.PairFeed.
func (s *pairFeedServiceImpl) SetFilter(partial entity.FilterSpec) {
	s.mu.Lock()
	s.filter = s.filter.Merge(partial)
	s.recomputeLocked()
	s.publishAndUnlock()
}

// ClearFilters implements port.PairFeed.
func (s *pairFeedServiceImpl) ClearFilters() {
	s.mu.Lock()
	s.filter = entity.FilterSpec{}
	s.recomputeLocked()
	s.publishAndUnlock()
}

// SetSort implements port.PairFeed.
func (s *pairFeedServiceImpl) SetSort(key entity.SortKey) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", entity.ErrInvalidSortKey, key)
	}

	s.mu.Lock()
	s.sortKey = key
	s.recomputeLocked()
	s.publishAndUnlock()
	return nil
}

// recomputeLocked derives the filtered, sorted view and summary from the
// current inputs. Callers must hold s.mu for writing.
func (s *pairFeedServiceImpl) recomputeLocked() {
	now := s.now()

	filtered := make([]entity.PairRecord, 0, len(s.records))
	for _, rec := range s.records {
		if s.filter.Matches(rec, now) {
			filtered = append(filtered, rec)
		}
	}
	slices.SortStableFunc(filtered, s.sortKey.Compare)

	summary := entity.FeedSummary{
		TotalCount:    len(s.records),
		FilteredCount: len(filtered),
		Loading:       s.inFlight > 0,
		CycleID:       s.cycleID,
		Sort:          s.sortKey,
		Filter:        s.filter.Clone(),
	}
	if s.lastErr != nil {
		errAt := s.lastErrAt
		summary.Error = s.lastErr.Error()
		summary.ErrorAt = &errAt
	}
	if !s.lastUpdated.IsZero() {
		updated := s.lastUpdated
		summary.LastUpdated = &updated
	}

	s.view = entity.FeedView{Pairs: filtered, Summary: summary}
	metrics.SetFeedCounts(summary.TotalCount, summary.FilteredCount)
}

// publishAndUnlock hands the current view to observers and releases s.mu.
// Callers must hold s.mu for writing.
func (s *pairFeedServiceImpl) publishAndUnlock() {
	view := s.view.Clone()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, o := range s.observers {
		o.FeedChanged(view)
	}
}

// View implements port.PairFeed.
func (s *pairFeedServiceImpl) View() entity.FeedView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Clone()
}

// Pairs implements port.PairFeed.
func (s *pairFeedServiceImpl) Pairs() []entity.PairRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.view.Pairs)
}

// Summary implements port.PairFeed.
func (s *pairFeedServiceImpl) Summary() entity.FeedSummary {
	return s.View().Summary
}

// TotalCount implements port.PairFeed.
func (s *pairFeedServiceImpl) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Summary.TotalCount
}

// FilteredCount implements port.PairFeed.
func (s *pairFeedServiceImpl) FilteredCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Summary.FilteredCount
}

// Loading implements port.PairFeed.
func (s *pairFeedServiceImpl) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// LastError implements port.PairFeed.
func (s *pairFeedServiceImpl) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// LastUpdated implements port.PairFeed. Zero until the first successful fetch.
func (s *pairFeedServiceImpl) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// Filter implements port.PairFeed.
func (s *pairFeedServiceImpl) Filter() entity.FilterSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Clone()
}

// Sort implements port.PairFeed.
func (s *pairFeedServiceImpl) Sort() entity.SortKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortKey
}

// RunAutoRefresh fetches immediately and then every interval until ctx is done.
func RunAutoRefresh(ctx context.Context, feed port.PairFeed, interval time.Duration, l port.Logger) {
	if interval <= 0 {
		l.Warn("Auto refresh disabled: non-positive interval", "interval", interval)
		return
	}

	feed.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Info("Auto refresh stopped")
			return
		case <-ticker.C:
			feed.Refresh(ctx)
		}
	}
}
