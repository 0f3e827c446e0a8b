package models

import "time"

// FinancialRecord holds the merged multi-period statement data for one symbol.
// Invariant: every line item's Values map has exactly the same key set as
// Periods (keyed by Period.String()); values missing at the source are stored
// as explicit nulls, never omitted.
type FinancialRecord struct {
	Symbol      string     `json:"symbol"`
	Periods     []Period   `json:"periods"`
	Items       []LineItem `json:"data"`
	LastUpdated time.Time  `json:"last_updated"`
}

// LineItem is one statement row. Identity is the (Code, Label) pair — the
// provider reuses codes across statement groups with different labels.
type LineItem struct {
	Code   string              `json:"code"`
	Label  string              `json:"label"`
	Values map[string]*float64 `json:"values"`
}

// IsEmpty reports whether the record carries no statement data at all.
// Empty records are treated as cache misses and are never persisted.
func (r *FinancialRecord) IsEmpty() bool {
	return r == nil || len(r.Periods) == 0 || len(r.Items) == 0
}

// Clone returns a deep copy. Store readers get clones so cached records are
// never mutated through a returned pointer.
func (r *FinancialRecord) Clone() *FinancialRecord {
	if r == nil {
		return nil
	}
	out := &FinancialRecord{
		Symbol:      r.Symbol,
		Periods:     append([]Period(nil), r.Periods...),
		Items:       make([]LineItem, len(r.Items)),
		LastUpdated: r.LastUpdated,
	}
	for i, item := range r.Items {
		values := make(map[string]*float64, len(item.Values))
		for k, v := range item.Values {
			if v == nil {
				values[k] = nil
				continue
			}
			f := *v
			values[k] = &f
		}
		out.Items[i] = LineItem{Code: item.Code, Label: item.Label, Values: values}
	}
	return out
}
