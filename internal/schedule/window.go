package schedule

import (
	"fmt"
	"time"

	"github.com/spakle/amarquiz-backend/internal/model"
)

// Calculator turns calendar days into absolute exam windows using a fixed
// civil offset. The offset is constant year-round; no DST rules apply.
type Calculator struct {
	zone            *time.Location
	examHour        int
	shortDuration   time.Duration
	stdDuration     time.Duration
	publishLeadDays int
}

// NewCalculator builds a Calculator for the given local exam hour and fixed
// UTC offset, with short/standard durations in minutes.
func NewCalculator(examHourLocal, utcOffsetHours, shortMin, standardMin, publishLeadDays int) *Calculator {
	name := fmt.Sprintf("UTC%+d", utcOffsetHours)
	return &Calculator{
		zone:            time.FixedZone(name, utcOffsetHours*3600),
		examHour:        examHourLocal,
		shortDuration:   time.Duration(shortMin) * time.Minute,
		stdDuration:     time.Duration(standardMin) * time.Minute,
		publishLeadDays: publishLeadDays,
	}
}

// Zone returns the fixed exam time zone.
func (c *Calculator) Zone() *time.Location { return c.zone }

// LocalDate converts an instant to the exam zone's calendar date.
func (c *Calculator) LocalDate(t time.Time) (year int, month time.Month, day int) {
	return t.In(c.zone).Date()
}

// DurationFor returns the exam length for a subject.
func (c *Calculator) DurationFor(subject model.Subject) time.Duration {
	if subject.ShortDuration {
		return c.shortDuration
	}
	return c.stdDuration
}

// WindowFor computes the exam window for a subject on a calendar day. The
// window opens at examHour:00 local and closes after the subject's duration.
func (c *Calculator) WindowFor(year int, month time.Month, day int, subject model.Subject) model.ExamWindow {
	start := time.Date(year, month, day, c.examHour, 0, 0, 0, c.zone)
	dur := c.DurationFor(subject)
	return model.ExamWindow{
		Subject:         subject,
		Start:           start,
		End:             start.Add(dur),
		DurationMinutes: int(dur / time.Minute),
	}
}

// PublishInstant returns when the month's routine becomes visible: local
// midnight on day startDay−publishLeadDays, clamped to day 1 so the routine
// is always disclosed before the window, never negative-dated.
func (c *Calculator) PublishInstant(year int, month time.Month, windowStartDay int) time.Time {
	day := windowStartDay - c.publishLeadDays
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, c.zone)
}

// Published reports whether the routine for the month is disclosed at t.
func (c *Calculator) Published(t time.Time, year int, month time.Month, windowStartDay int) bool {
	return !t.Before(c.PublishInstant(year, month, windowStartDay))
}
