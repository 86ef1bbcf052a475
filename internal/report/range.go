// =============================================================================
// fxexport - Date Range
// =============================================================================

package report

import (
	"errors"
	"fmt"
	"time"
)

// ErrEndBeforeStart is returned when a range ends before it starts. The
// check runs before any store access, so an invalid range never touches the
// database.
var ErrEndBeforeStart = errors.New("end date is before start date")

// DayFormat is the calendar-day form used throughout the report.
const DayFormat = "2006-01-02"

// DateRange is an inclusive calendar-day range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range from two calendar days, truncating any
// time-of-day component.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: truncateDay(start), End: truncateDay(end)}
}

// Validate rejects ranges whose end precedes their start.
func (r DateRange) Validate() error {
	if r.End.Before(r.Start) {
		return fmt.Errorf("range %s..%s: %w",
			r.Start.Format(DayFormat), r.End.Format(DayFormat), ErrEndBeforeStart)
	}
	return nil
}

// Days returns every day of the range in order, both ends included.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
