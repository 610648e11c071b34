package domain

import (
	"fmt"
	"strings"
	"time"
)

// Period selects the window of orders an analytics query looks at.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodAll     Period = "all"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly, PeriodAll:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Start returns the inclusive lower bound of the window relative to now.
// ok is false for PeriodAll, which does not filter.
func (p Period) Start(now time.Time) (start time.Time, ok bool) {
	y, m, d := now.Date()
	loc := now.Location()
	switch p {
	case PeriodDaily:
		return time.Date(y, m, d, 0, 0, 0, 0, loc), true
	case PeriodWeekly:
		return now.AddDate(0, 0, -7), true
	case PeriodMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), true
	case PeriodYearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), true
	}
	return time.Time{}, false
}
