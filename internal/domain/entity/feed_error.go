package entity

import "errors"

// ErrInvalidSortKey is returned when a caller supplies a sort key outside SortKeys.
var ErrInvalidSortKey = errors.New("invalid sort key")

// DataSourceError records a failed fetch from the pair data source.
type DataSourceError struct {
	Source string
	Err    error
}

func (e *DataSourceError) Error() string {
	if e.Source == "" {
		return "failed to load pairs: " + e.Err.Error()
	}
	return "failed to load pairs from " + e.Source + ": " + e.Err.Error()
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
