// Package models defines data structures for bistboard
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period identifies one fiscal reporting interval as (year, quarter-end month).
// Month is one of 3, 6, 9, 12. Periods order most-recent-first by (Year, Month).
// It is not a calendar date: 2024/12 means "the quarter ending December 2024",
// whenever the statement was actually filed.
type Period struct {
	Year  int
	Month int
}

// String returns the provider wire form "YYYY/M" (month unpadded).
func (p Period) String() string {
	return fmt.Sprintf("%d/%d", p.Year, p.Month)
}

// Before reports whether p is chronologically earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// IsZero reports whether p is the zero Period.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// MarshalJSON encodes the period as its "YYYY/M" string form.
func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes the "YYYY/M" string form.
func (p *Period) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePeriod(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePeriod parses the "YYYY/M" form.
func ParsePeriod(s string) (Period, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("invalid period %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("invalid period year %q", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Period{}, fmt.Errorf("invalid period month %q", s)
	}
	switch month {
	case 3, 6, 9, 12:
	default:
		return Period{}, fmt.Errorf("period month %d is not a quarter end", month)
	}
	return Period{Year: year, Month: month}, nil
}

// DefaultAnchorMonths are the month thresholds that decide the most recently
// published quarter. Statements reach the provider roughly 2-4 months after
// quarter close, so before April only the previous year's Q4 is available,
// April-June exposes Q1, July-September Q2, and October onward Q3.
var DefaultAnchorMonths = []int{4, 7, 10}

// RecentPeriods returns the count most recent publishable periods, newest
// first, stepping back one quarter at a time with no gaps.
func RecentPeriods(now time.Time, count int) []Period {
	return RecentPeriodsAt(now, count, DefaultAnchorMonths)
}

// RecentPeriodsAt is RecentPeriods with an explicit threshold table.
// anchors must hold three ascending month thresholds; each threshold is the
// first month (inclusive) in which the next quarter's statements are assumed
// published. A malformed table falls back to DefaultAnchorMonths.
func RecentPeriodsAt(now time.Time, count int, anchors []int) []Period {
	if len(anchors) != 3 {
		anchors = DefaultAnchorMonths
	}

	year := now.Year()
	month := int(now.Month())

	var anchor Period
	switch {
	case month < anchors[0]:
		anchor = Period{Year: year - 1, Month: 12}
	case month < anchors[1]:
		anchor = Period{Year: year, Month: 3}
	case month < anchors[2]:
		anchor = Period{Year: year, Month: 6}
	default:
		anchor = Period{Year: year, Month: 9}
	}

	periods := make([]Period, 0, count)
	curr := anchor
	for i := 0; i < count; i++ {
		periods = append(periods, curr)
		curr.Month -= 3
		if curr.Month == 0 {
			curr.Month = 12
			curr.Year--
		}
	}
	return periods
}

// ChunkPeriods partitions periods into consecutive chunks of at most size,
// preserving order. The chunk slices alias the input.
func ChunkPeriods(periods []Period, size int) [][]Period {
	if size <= 0 || len(periods) == 0 {
		return nil
	}
	chunks := make([][]Period, 0, (len(periods)+size-1)/size)
	for start := 0; start < len(periods); start += size {
		end := start + size
		if end > len(periods) {
			end = len(periods)
		}
		chunks = append(chunks, periods[start:end])
	}
	return chunks
}
