package commission

import (
	"fmt"
	"time"

	"github.com/gmn-dev/dispatch/pkg/models/domain"
)

const monthLayout = "2006-01"

// ParseMonth parses a YYYY-MM selector in loc.
func ParseMonth(value string, loc *time.Location) (domain.Month, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(monthLayout, value, loc)
	if err != nil {
		return domain.Month{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", value, err)
	}
	return domain.Month{Year: t.Year(), Month: t.Month(), Location: loc}, nil
}

func CurrentMonth(now time.Time) domain.Month {
	return domain.Month{Year: now.Year(), Month: now.Month(), Location: now.Location()}
}

// PreviousMonth is the calendar month before the one containing now.
func PreviousMonth(now time.Time) domain.Month {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	return domain.Month{Year: first.Year(), Month: first.Month(), Location: now.Location()}
}
