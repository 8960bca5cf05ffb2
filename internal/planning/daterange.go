package planning

import (
	"fmt"
	"strings"
	"time"
)

type DateFilter string

const (
	FilterAll       DateFilter = "all"
	FilterThisWeek  DateFilter = "this-week"
	FilterLastWeek  DateFilter = "last-week"
	FilterNextWeek  DateFilter = "next-week"
	FilterThisMonth DateFilter = "this-month"
	FilterLastMonth DateFilter = "last-month"
	FilterNextMonth DateFilter = "next-month"
	FilterCustom    DateFilter = "custom"
)

// CustomRange carries the raw bounds typed by the user for FilterCustom.
type CustomRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Interval is an inclusive instant interval. A zero bound is unbounded.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Contains(t time.Time) bool {
	if !i.Start.IsZero() && t.Before(i.Start) {
		return false
	}
	if !i.End.IsZero() && t.After(i.End) {
		return false
	}
	return true
}

// ResolveDateRange turns a filter token into a concrete interval relative to
// now (whose location is used for day boundaries). A nil interval means no
// restriction.
func ResolveDateRange(filter DateFilter, custom CustomRange, now time.Time) (*Interval, error) {
	today := startOfDay(now)
	monday := today.AddDate(0, 0, 1-isoWeekday(today))
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	week := func(offset int) *Interval {
		start := monday.AddDate(0, 0, 7*offset)
		return &Interval{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
	}
	month := func(offset int) *Interval {
		start := firstOfMonth.AddDate(0, offset, 0)
		return &Interval{Start: start, End: endOfDay(start.AddDate(0, 1, -1))}
	}

	switch filter {
	case FilterAll, "":
		return nil, nil
	case FilterThisWeek:
		return week(0), nil
	case FilterLastWeek:
		return week(-1), nil
	case FilterNextWeek:
		return week(1), nil
	case FilterThisMonth:
		return month(0), nil
	case FilterLastMonth:
		return month(-1), nil
	case FilterNextMonth:
		return month(1), nil
	case FilterCustom:
		// Missing or malformed bounds leave that side open. With neither
		// bound there is no filter at all.
		var iv Interval
		start, okStart := ParseDate(custom.Start, now.Location())
		end, okEnd := ParseDate(custom.End, now.Location())
		if !okStart && !okEnd {
			return nil, nil
		}
		if okStart {
			iv.Start = startOfDay(start)
		}
		if okEnd {
			iv.End = endOfDay(end)
		}
		return &iv, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDateFilter, filter)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParseDate reads the date formats found in stored pedidos. Instants with an
// explicit offset are converted to loc; bare dates are taken in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
