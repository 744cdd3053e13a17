package series

import (
	"errors"
	"time"

	"github.com/rickar/cal/v2"
)

var ErrCannotInferInterval = errors.New("cannot infer interval from series dates")

// InferInterval estimates the spacing of a series from its last two
// distinct calendar dates. Series with opaque keys or fewer than two
// dated points cannot be stepped forward.
func InferInterval(s Series) (time.Duration, error) {
	var prev, last time.Time
	for i := len(s) - 1; i >= 0; i-- {
		t := s[i].T
		if t.IsZero() {
			continue
		}
		if last.IsZero() {
			last = t
			continue
		}
		if !t.Equal(last) {
			prev = t
			break
		}
	}
	if prev.IsZero() || last.IsZero() {
		return 0, ErrCannotInferInterval
	}
	return last.Sub(prev), nil
}

// DateStepper synthesizes continuation dates past the end of a known
// series for engines that return no forecast dates. Monthly spacing is
// stepped by calendar month, keeping the anchor day of month clamped
// to each month's length so end-of-month anchors never drift into the
// following month. An optional business calendar skips non-workdays
// for daily data.
type DateStepper struct {
	cursor    time.Time
	interval  time.Duration
	monthly   bool
	anchorDay int
	calendar  *cal.BusinessCalendar
}

// NewDateStepper starts stepping from the last dated point of the
// series at its inferred interval.
func NewDateStepper(s Series, calendar *cal.BusinessCalendar) (*DateStepper, error) {
	interval, err := InferInterval(s)
	if err != nil {
		return nil, err
	}
	var last time.Time
	for i := len(s) - 1; i >= 0; i-- {
		if !s[i].T.IsZero() {
			last = s[i].T
			break
		}
	}
	return &DateStepper{
		cursor:    last,
		interval:  interval,
		monthly:   interval >= 28*24*time.Hour && interval <= 31*24*time.Hour,
		anchorDay: last.Day(),
		calendar:  calendar,
	}, nil
}

// Next returns the following synthetic date label in YYYY-MM-DD form.
func (d *DateStepper) Next() string {
	if d.monthly {
		// step from the first of the month so Jan 31 lands on Feb 28,
		// not Mar 3, then restore the anchor day where the month allows
		first := time.Date(d.cursor.Year(), d.cursor.Month(), 1, 0, 0, 0, 0, d.cursor.Location()).AddDate(0, 1, 0)
		day := d.anchorDay
		if last := daysInMonth(first); day > last {
			day = last
		}
		d.cursor = time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, first.Location())
	} else {
		d.cursor = d.cursor.Add(d.interval)
	}
	if d.calendar != nil && d.interval >= 24*time.Hour && !d.monthly {
		for !d.calendar.IsWorkday(d.cursor) {
			d.cursor = d.cursor.AddDate(0, 0, 1)
		}
	}
	return d.cursor.Format("2006-01-02")
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
