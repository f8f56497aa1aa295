package report

import (
	"fmt"
	"time"

	"github.com/ledgerbook/backend/internal/domain/shared"
)

// RangeName is a named reporting period
type RangeName string

const (
	RangeToday       RangeName = "today"
	RangeThisWeek    RangeName = "thisWeek"
	RangeThisMonth   RangeName = "thisMonth"
	RangeLastMonth   RangeName = "lastMonth"
	RangeThisQuarter RangeName = "thisQuarter"
	RangeLastQuarter RangeName = "lastQuarter"
	RangeThisYear    RangeName = "thisYear"
	RangeLastYear    RangeName = "lastYear"
	RangeLast30Days  RangeName = "last30Days"
	RangeLast90Days  RangeName = "last90Days"
	RangeCustom      RangeName = "custom"
)

// DefaultRange is used when no range, or an unknown one, is requested
const DefaultRange = RangeThisYear

// DateLayout is the layout of startDate/endDate query values
const DateLayout = "2006-01-02"

// DateRange is a closed reporting window
type DateRange struct {
	Name  RangeName `json:"range"`
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Contains reports whether t falls inside the window
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// MonthCount is the number of calendar months the window touches
func (r DateRange) MonthCount() int {
	return MonthCount(r.Start, r.End)
}

// RangeQuery holds the raw range parameters of a report request
type RangeQuery struct {
	Range     string
	StartDate string
	EndDate   string
}

// ResolveDateRange turns a named range or explicit bounds into a concrete window anchored at now.
// Unknown names fall back to thisYear. Explicit bounds without a name are treated as custom.
func ResolveDateRange(q RangeQuery, now time.Time) (DateRange, error) {
	name := RangeName(q.Range)
	if name == "" && q.StartDate != "" && q.EndDate != "" {
		name = RangeCustom
	}

	if name == RangeCustom {
		return resolveCustom(q, now.Location())
	}

	start, end, ok := namedBounds(name, now)
	if !ok {
		name = DefaultRange
		start, end, _ = namedBounds(name, now)
	}
	return DateRange{Name: name, Start: start, End: end}, nil
}

func namedBounds(name RangeName, now time.Time) (time.Time, time.Time, bool) {
	y, m, _ := now.Date()
	loc := now.Location()
	today := startOfDay(now)

	switch name {
	case RangeToday:
		return today, endOfDay(today), true
	case RangeThisWeek:
		offset := (int(now.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -offset)
		return monday, endOfDay(monday.AddDate(0, 0, 6)), true
	case RangeThisMonth:
		first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return first, endOfDay(first.AddDate(0, 1, -1)), true
	case RangeLastMonth:
		first := time.Date(y, m-1, 1, 0, 0, 0, 0, loc)
		return first, endOfDay(first.AddDate(0, 1, -1)), true
	case RangeThisQuarter:
		first := time.Date(y, quarterStart(m), 1, 0, 0, 0, 0, loc)
		return first, endOfDay(first.AddDate(0, 3, -1)), true
	case RangeLastQuarter:
		first := time.Date(y, quarterStart(m)-3, 1, 0, 0, 0, 0, loc)
		return first, endOfDay(first.AddDate(0, 3, -1)), true
	case RangeThisYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), endOfDay(time.Date(y, time.December, 31, 0, 0, 0, 0, loc)), true
	case RangeLastYear:
		return time.Date(y-1, time.January, 1, 0, 0, 0, 0, loc), endOfDay(time.Date(y-1, time.December, 31, 0, 0, 0, 0, loc)), true
	case RangeLast30Days:
		return today.AddDate(0, 0, -29), endOfDay(today), true
	case RangeLast90Days:
		return today.AddDate(0, 0, -89), endOfDay(today), true
	}
	return time.Time{}, time.Time{}, false
}

func resolveCustom(q RangeQuery, loc *time.Location) (DateRange, error) {
	if q.StartDate == "" {
		return DateRange{}, rangeError("startDate", "is required for a custom range")
	}
	if q.EndDate == "" {
		return DateRange{}, rangeError("endDate", "is required for a custom range")
	}
	start, err := parseDate(q.StartDate, loc)
	if err != nil {
		return DateRange{}, rangeError("startDate", fmt.Sprintf("must be a date in %s format", DateLayout))
	}
	end, err := parseDate(q.EndDate, loc)
	if err != nil {
		return DateRange{}, rangeError("endDate", fmt.Sprintf("must be a date in %s format", DateLayout))
	}
	if start.After(end) {
		return DateRange{}, rangeError("startDate", "must not be after endDate")
	}
	return DateRange{Name: RangeCustom, Start: startOfDay(start), End: endOfDay(end)}, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

func rangeError(field, msg string) error {
	return shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("%s %s", field, msg)).WithDetail(field, msg)
}

// MonthCount returns the inclusive number of calendar months between start and end, at least 1
func MonthCount(start, end time.Time) int {
	n := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
	if n < 1 {
		return 1
	}
	return n
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func quarterStart(m time.Month) time.Month {
	return time.Month((int(m)-1)/3*3 + 1)
}
