package domain

import "strings"

// FilterAll is the chip id that disables status filtering.
const FilterAll = "all"

// Statused is implemented by every record whose status drives filter chips.
type Statused interface {
	StatusValue() string
}

// Record is a listable row: it has an identity and a status.
type Record interface {
	Statused
	RecordID() string
}

// FilterByStatus keeps the items whose status equals filter, preserving
// order. An empty filter or "all" returns items unchanged.
func FilterByStatus[T Statused](items []T, filter string) []T {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" || filter == FilterAll {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.StatusValue() == filter {
			out = append(out, it)
		}
	}
	return out
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
