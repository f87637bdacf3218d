package entity

import "time"

// FeedSummary holds the aggregate statistics derived alongside the view.
type FeedSummary struct {
	TotalCount    int        `json:"totalCount"`
	FilteredCount int        `json:"filteredCount"`
	Loading       bool       `json:"loading"`
	Error         string     `json:"error,omitempty"`
	ErrorAt       *time.Time `json:"errorAt,omitempty"`
	LastUpdated   *time.Time `json:"lastUpdated,omitempty"`
	CycleID       string     `json:"cycleId,omitempty"`
	Sort          SortKey    `json:"sort"`
	Filter        FilterSpec `json:"filter"`
}

// FeedView is the filtered and sorted pair list together with its summary.
type FeedView struct {
	Pairs   []PairRecord `json:"pairs"`
	Summary FeedSummary  `json:"summary"`
}

// Clone returns a copy that shares no mutable state with v.
func (v FeedView) Clone() FeedView {
	out := v
	out.Pairs = append(make([]PairRecord, 0, len(v.Pairs)), v.Pairs...)
	out.Summary.Filter = v.Summary.Filter.Clone()
	if v.Summary.ErrorAt != nil {
		t := *v.Summary.ErrorAt
		out.Summary.ErrorAt = &t
	}
	if v.Summary.LastUpdated != nil {
		t := *v.Summary.LastUpdated
		out.Summary.LastUpdated = &t
	}
	return out
}
