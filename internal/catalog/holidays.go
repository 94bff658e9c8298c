package catalog

import (
	"fmt"
	"time"

	"github.com/tanqtrail-arch/Absence/internal/model"
)

// Holidays is a set of ISO dates without classes.
type Holidays map[string]struct{}

// NewHolidays builds a holiday set from ISO dates.
func NewHolidays(dates ...string) Holidays {
	h := make(Holidays, len(dates))
	for _, d := range dates {
		h[d] = struct{}{}
	}
	return h
}

// Contains is safe on a nil set.
func (h Holidays) Contains(date string) bool {
	_, ok := h[date]
	return ok
}

// Holidays2026 is the school's closure calendar for the 2026 academic year.
func Holidays2026() Holidays {
	dates := []string{
		// 2月
		"2026-02-22", "2026-02-23", "2026-02-24", "2026-02-25", "2026-02-26", "2026-02-27", "2026-02-28",
		// 3月
		"2026-03-29", "2026-03-30", "2026-03-31",
		// 4月
		"2026-04-29", "2026-04-30",
		// 5月 GW
		"2026-05-03", "2026-05-04", "2026-05-05", "2026-05-06",
		// 11月
		"2026-11-01", "2026-11-02", "2026-11-03", "2026-11-04",
		"2026-11-22", "2026-11-23", "2026-11-24",
		// 1月
		"2027-01-01", "2027-01-02", "2027-01-03", "2027-01-04",
	}

	// 8月 全休
	for day := 1; day <= 31; day++ {
		dates = append(dates, fmt.Sprintf("2026-08-%02d", day))
	}

	// 12月 20日から年末まで
	for day := 20; day <= 31; day++ {
		dates = append(dates, fmt.Sprintf("2026-12-%02d", day))
	}

	return NewHolidays(dates...)
}

// ParseHolidays validates ISO dates and builds a set.
func ParseHolidays(dates []string) (Holidays, error) {
	for _, d := range dates {
		if _, err := time.Parse(model.DateLayout, d); err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", d, err)
		}
	}
	return NewHolidays(dates...), nil
}
