// Package schedule derives the per-month subject routine and the daily exam
// windows. Everything here is a pure function of (date, roster, parameters):
// any two devices computing the same month independently must agree, which is
// why the shuffle is seeded from the month key rather than any local state.
package schedule

import (
	"fmt"
	"time"

	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/prng"
)

// Month is the fully derived routine for one calendar month.
type Month struct {
	Year     int                   `json:"year"`
	Month    time.Month            `json:"month"`
	StartDay int                   `json:"start_day"`
	LastDay  int                   `json:"last_day"`
	Entries  []model.ScheduleEntry `json:"entries"`
}

// EntryFor returns the schedule entry for a day of the month, or false when
// the day falls outside the exam window.
func (m *Month) EntryFor(day int) (model.ScheduleEntry, bool) {
	if day < m.StartDay || day > m.LastDay {
		return model.ScheduleEntry{}, false
	}
	return m.Entries[day-m.StartDay], true
}

// MonthSeed is the seed string that fixes a month's subject permutation.
func MonthSeed(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d-schedule", year, int(month))
}

// Build assigns subjects to the last windowDays days of the month. The
// roster is shuffled with the month seed and the first windowDays subjects
// are zipped against consecutive days ending on the month's last day. When
// windowDays exceeds the roster, the shuffled roster wraps around.
func Build(roster []model.Subject, year int, month time.Month, windowDays int) (*Month, error) {
	if len(roster) == 0 {
		return nil, fmt.Errorf("empty subject roster")
	}
	if windowDays < 1 {
		return nil, fmt.Errorf("window length %d is not positive", windowDays)
	}

	lastDay := LastDayOfMonth(year, month)
	if windowDays > lastDay {
		return nil, fmt.Errorf("window length %d exceeds days in %04d-%02d", windowDays, year, int(month))
	}

	shuffled := prng.ShuffleSeeded(roster, MonthSeed(year, month))
	startDay := lastDay - windowDays + 1

	entries := make([]model.ScheduleEntry, windowDays)
	for i := 0; i < windowDays; i++ {
		entries[i] = model.ScheduleEntry{
			DayOfMonth: startDay + i,
			Subject:    shuffled[i%len(shuffled)],
		}
	}

	return &Month{
		Year:     year,
		Month:    month,
		StartDay: startDay,
		LastDay:  lastDay,
		Entries:  entries,
	}, nil
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to this month's last day.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
