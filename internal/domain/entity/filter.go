package entity

import "time"

// FilterSpec is a set of optional predicates applied conjunctively.
// A nil field imposes no constraint on its dimension.
type FilterSpec struct {
	MaxAge      *time.Duration `json:"maxAge,omitempty"`
	MinPoolSize *float64       `json:"minPoolSize,omitempty"`
	PairedAsset *string        `json:"pairedAsset,omitempty"`
	Verified    *bool          `json:"verified,omitempty"`
}

// Merge returns a copy of f with every non-nil field of partial applied on top.
// Fields absent from partial keep their current value.
func (f FilterSpec) Merge(partial FilterSpec) FilterSpec {
	if partial.MaxAge != nil {
		v := *partial.MaxAge
		f.MaxAge = &v
	}
	if partial.MinPoolSize != nil {
		v := *partial.MinPoolSize
		f.MinPoolSize = &v
	}
	if partial.PairedAsset != nil {
		v := *partial.PairedAsset
		f.PairedAsset = &v
	}
	if partial.Verified != nil {
		v := *partial.Verified
		f.Verified = &v
	}
	return f
}

// Clone returns a deep copy so callers cannot mutate shared pointers.
func (f FilterSpec) Clone() FilterSpec {
	return FilterSpec{}.Merge(f)
}

// IsEmpty reports whether no dimension is constrained.
func (f FilterSpec) IsEmpty() bool {
	return f.MaxAge == nil && f.MinPoolSize == nil && f.PairedAsset == nil && f.Verified == nil
}

// Matches evaluates the predicates in order: age, pool size, paired asset,
// verification. now must be sampled once per pass by the caller.
func (f FilterSpec) Matches(rec PairRecord, now time.Time) bool {
	if f.MaxAge != nil && rec.Age(now) > *f.MaxAge {
		return false
	}
	if f.MinPoolSize != nil && rec.PoolSize < *f.MinPoolSize {
		return false
	}
	// Exact, case-sensitive comparison. "weth" does not match "WETH".
	if f.PairedAsset != nil && rec.PairedAsset != *f.PairedAsset {
		return false
	}
	if f.Verified != nil && rec.Verified != *f.Verified {
		return false
	}
	return true
}
