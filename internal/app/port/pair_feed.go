package port

import (
	"context"
	"time"

	"pair_screener/internal/domain/entity"
)

// PairSource returns the full current snapshot of known pairs.
// Any error is treated by the feed as a recoverable fetch failure.
type PairSource interface {
	ListPairs(ctx context.Context) ([]entity.PairRecord, error)
}

// FeedObserver is notified after every recomputation of the derived view.
// Views arrive in the order they were computed. Implementations must not
// block and must not mutate the feed.
type FeedObserver interface {
	FeedChanged(view entity.FeedView)
}

// PairFeed owns the pair record set, the current filter and sort key, and the
// derived view computed from them.
type PairFeed interface {
	// Fetch repopulates the record set. Failures are recorded in the feed
	// state, never returned.
	Fetch(ctx context.Context)
	// Refresh is an alias for Fetch.
	Refresh(ctx context.Context)

	SetFilter(partial entity.FilterSpec)
	ClearFilters()
	// SetSort returns entity.ErrInvalidSortKey for keys outside the closed set.
	SetSort(key entity.SortKey) error

	View() entity.FeedView
	Pairs() []entity.PairRecord
	Summary() entity.FeedSummary
	TotalCount() int
	FilteredCount() int
	Loading() bool
	LastError() error
	LastUpdated() time.Time
	Filter() entity.FilterSpec
	Sort() entity.SortKey
}
