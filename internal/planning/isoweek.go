package planning

import (
	"fmt"
	"math"
	"time"
)

const day = 24 * time.Hour

// WeekRange is the Monday 00:00 .. Sunday 23:59:59.999 span of an ISO week.
type WeekRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r WeekRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// CalendarWeek is one entry of WeeksOfYear.
type CalendarWeek struct {
	Year      int       `json:"year"`
	Week      int       `json:"week"`
	Label     string    `json:"label"`
	DateRange string    `json:"dateRange"`
	Range     WeekRange `json:"range"`
}

// isoWeekday maps Sunday to 7 so that Monday=1..Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// thursdayOf returns, at UTC midnight, the Thursday of the ISO week that
// contains t's calendar date.
func thursdayOf(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, 4-isoWeekday(d))
}

// WeekNumber returns the ISO-8601 week number of t's calendar date.
func WeekNumber(t time.Time) int {
	thu := thursdayOf(t)
	yearStart := time.Date(thu.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := float64(thu.Sub(yearStart) / day)
	return int(math.Ceil((days + 1) / 7))
}

// YearWeek returns the ISO week-numbering year and week of t. Late December
// dates can belong to week 1 of the next year and early January dates to
// week 52/53 of the previous one.
func YearWeek(t time.Time) (year, week int) {
	return thursdayOf(t).Year(), WeekNumber(t)
}

// WeekDateRange returns the Monday..Sunday range of ISO week `week` of `year`
// in loc.
func WeekDateRange(year, week int, loc *time.Location) WeekRange {
	if loc == nil {
		loc = time.UTC
	}
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	jan1Day := isoWeekday(jan1)

	// Week 1 holds the first Thursday: when Jan 1 is Monday..Thursday the week
	// starts on or before it, otherwise on the following Monday.
	firstMonday := jan1.AddDate(0, 0, (8-jan1Day)%7)
	if jan1Day <= 4 {
		firstMonday = jan1.AddDate(0, 0, 1-jan1Day)
	}

	start := firstMonday.AddDate(0, 0, (week-1)*7)
	return WeekRange{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
}

// WeeksInYear is 53 when Dec 28 falls in ISO week 53, else 52.
func WeeksInYear(year int) int {
	if WeekNumber(time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC)) == 53 {
		return 53
	}
	return 52
}

// WeeksOfYear enumerates every ISO week of year.
func WeeksOfYear(year int, loc *time.Location) []CalendarWeek {
	n := WeeksInYear(year)
	weeks := make([]CalendarWeek, 0, n)
	for w := 1; w <= n; w++ {
		r := WeekDateRange(year, w, loc)
		weeks = append(weeks, CalendarWeek{
			Year:      year,
			Week:      w,
			Label:     WeekLabel(w),
			DateRange: fmt.Sprintf("%s - %s", ddmm(r.Start), ddmm(r.End)),
			Range:     r,
		})
	}
	return weeks
}

func WeekLabel(week int) string { return fmt.Sprintf("Semana %d", week) }

// WeekKey formats the bucket key, e.g. "2024-09".
func WeekKey(year, week int) string { return fmt.Sprintf("%d-%02d", year, week) }

// ParseWeekKey is the inverse of WeekKey.
func ParseWeekKey(key string) (year, week int, err error) {
	if _, err := fmt.Sscanf(key, "%d-%d", &year, &week); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeekKey, key)
	}
	if week < 1 || week > WeeksInYear(year) || WeekKey(year, week) != key {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeekKey, key)
	}
	return year, week, nil
}

// workweekLabel is the Monday - Friday presentation range of a week.
func workweekLabel(r WeekRange) string {
	return fmt.Sprintf("%s - %s", ddmm(r.Start), ddmm(r.Start.AddDate(0, 0, 4)))
}

func ddmm(t time.Time) string { return t.Format("02/01") }

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
