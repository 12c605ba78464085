package models

import (
	"fmt"
	"time"

	appErrors "github.com/jmtenga/attendance-api/pkg/errors"
)

// Period is a named date-range selector used for querying and exporting.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodCustom  Period = "custom"
)

// Valid reports whether the period is a supported selector.
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly, PeriodCustom:
		return true
	default:
		return false
	}
}

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
	yearLayout  = "2006"
)

// DateRange is an inclusive [From, To] day range with a label used for
// export filenames, e.g. "weekly_2024-02-26_to_2024-03-03".
type DateRange struct {
	From  time.Time
	To    time.Time
	Label string
}

// ResolveRange turns a period selector plus its raw date inputs into a
// concrete range. Empty date inputs fall back to the range containing now.
// Unparseable inputs yield INVALID_DATE.
func ResolveRange(period Period, dateStr, startStr, endStr string, now time.Time) (DateRange, error) {
	today := truncateToDay(now)

	switch period {
	case PeriodDaily:
		day, err := parseOrDefault(dateStr, dayLayout, today)
		if err != nil {
			return DateRange{}, err
		}
		return DateRange{
			From:  day,
			To:    day,
			Label: fmt.Sprintf("daily_%s", day.Format(dayLayout)),
		}, nil

	case PeriodWeekly:
		day, err := parseOrDefault(dateStr, dayLayout, today)
		if err != nil {
			return DateRange{}, err
		}
		start := startOfWeek(day)
		end := start.AddDate(0, 0, 6)
		return DateRange{
			From:  start,
			To:    end,
			Label: fmt.Sprintf("weekly_%s_to_%s", start.Format(dayLayout), end.Format(dayLayout)),
		}, nil

	case PeriodMonthly:
		day, err := parseOrDefault(dateStr, monthLayout, today)
		if err != nil {
			return DateRange{}, err
		}
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 1, -1)
		return DateRange{
			From:  start,
			To:    end,
			Label: fmt.Sprintf("monthly_%d_%d", start.Year(), int(start.Month())),
		}, nil

	case PeriodYearly:
		day, err := parseOrDefault(dateStr, yearLayout, today)
		if err != nil {
			return DateRange{}, err
		}
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		end := time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, day.Location())
		return DateRange{
			From:  start,
			To:    end,
			Label: fmt.Sprintf("yearly_%d", start.Year()),
		}, nil

	case PeriodCustom:
		if startStr == "" || endStr == "" {
			return DateRange{}, appErrors.Clone(appErrors.ErrInvalidDate, "custom period requires start and end dates")
		}
		start, err := parseOrDefault(startStr, dayLayout, today)
		if err != nil {
			return DateRange{}, err
		}
		end, err := parseOrDefault(endStr, dayLayout, today)
		if err != nil {
			return DateRange{}, err
		}
		if end.Before(start) {
			return DateRange{}, appErrors.Clone(appErrors.ErrInvalidDate, "end date precedes start date")
		}
		return DateRange{
			From:  start,
			To:    end,
			Label: fmt.Sprintf("custom_%s_to_%s", start.Format(dayLayout), end.Format(dayLayout)),
		}, nil

	default:
		return DateRange{}, appErrors.Clone(appErrors.ErrValidation, "unknown period selector")
	}
}

// startOfWeek returns the Monday of the ISO week containing day.
func startOfWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

func parseOrDefault(raw, layout string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.ParseInLocation(layout, raw, fallback.Location())
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, fmt.Sprintf("date %q does not match %s", raw, layout))
	}
	return parsed, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
