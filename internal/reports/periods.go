package reports

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownPeriod = errors.New("unknown report period")

// Period names a reporting window relative to "now".
type Period string

const (
	PeriodCurrentMonth Period = "current_month"
	PeriodLastMonth    Period = "last_month"
	PeriodLast3Months  Period = "last_3_months"
	PeriodCurrentYear  Period = "current_year"
)

// Periods lists every supported period in menu order.
var Periods = []Period{PeriodCurrentMonth, PeriodLastMonth, PeriodLast3Months, PeriodCurrentYear}

// ParsePeriod accepts one of the Period names. An empty string means the
// current month.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return PeriodCurrentMonth, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// Range returns the half-open interval [from, to) the period covers, in the
// location of now. "last_3_months" spans the two previous months plus the
// current one.
func (p Period) Range(now time.Time) (from, to time.Time) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	switch p {
	case PeriodLastMonth:
		return monthStart.AddDate(0, -1, 0), monthStart
	case PeriodLast3Months:
		return monthStart.AddDate(0, -2, 0), monthStart.AddDate(0, 1, 0)
	case PeriodCurrentYear:
		yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return yearStart, yearStart.AddDate(1, 0, 0)
	default:
		return monthStart, monthStart.AddDate(0, 1, 0)
	}
}

func (p Period) Label() string {
	switch p {
	case PeriodLastMonth:
		return "Mês anterior"
	case PeriodLast3Months:
		return "Últimos 3 meses"
	case PeriodCurrentYear:
		return "Ano atual"
	default:
		return "Mês atual"
	}
}
