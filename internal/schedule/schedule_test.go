package schedule

import (
	"testing"
	"time"

	"github.com/spakle/amarquiz-backend/internal/model"
)

func testRoster() []model.Subject {
	return []model.Subject{
		{ID: "bangla-1", Name: "Bangla — 1st Paper", File: "bangla-1.json"},
		{ID: "bangla-2", Name: "Bangla — 2nd Paper", File: "bangla-2.json"},
		{ID: "math", Name: "Math", File: "math.json"},
		{ID: "higher-math", Name: "Higher Math", File: "higher-math.json", ShortDuration: true},
		{ID: "physics", Name: "Physics", File: "physics.json", ShortDuration: true},
		{ID: "chemistry", Name: "Chemistry", File: "chemistry.json", ShortDuration: true},
		{ID: "biology", Name: "Biology", File: "biology.json", ShortDuration: true},
		{ID: "bgs", Name: "BGS", File: "bgs.json"},
		{ID: "ict", Name: "ICT", File: "ict.json", ShortDuration: true},
		{ID: "religion", Name: "Religion", File: "religion.json"},
	}
}

func TestBuildWindowPlacement(t *testing.T) {
	cases := []struct {
		year      int
		month     time.Month
		days      int
		wantStart int
		wantLast  int
	}{
		{2025, time.July, 10, 22, 31},    // 31-day month
		{2025, time.June, 10, 21, 30},    // 30-day month
		{2025, time.February, 10, 19, 28}, // regular February
		{2024, time.February, 10, 20, 29}, // leap February
	}

	for _, tc := range cases {
		m, err := Build(testRoster(), tc.year, tc.month, tc.days)
		if err != nil {
			t.Fatalf("%04d-%02d: %v", tc.year, tc.month, err)
		}
		if m.StartDay != tc.wantStart || m.LastDay != tc.wantLast {
			t.Errorf("%04d-%02d: window %d..%d, want %d..%d",
				tc.year, tc.month, m.StartDay, m.LastDay, tc.wantStart, tc.wantLast)
		}
		if len(m.Entries) != tc.days {
			t.Errorf("%04d-%02d: %d entries, want %d", tc.year, tc.month, len(m.Entries), tc.days)
		}
		for i, e := range m.Entries {
			if e.DayOfMonth != m.StartDay+i {
				t.Errorf("entry %d has day %d, want %d", i, e.DayOfMonth, m.StartDay+i)
			}
		}
	}
}

func TestBuildSubjectsDistinct(t *testing.T) {
	m, err := Build(testRoster(), 2025, time.June, 10)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for _, e := range m.Entries {
		if seen[e.Subject.ID] {
			t.Fatalf("subject %s scheduled twice", e.Subject.ID)
		}
		seen[e.Subject.ID] = true
	}
}

func TestBuildDeterministic(t *testing.T) {
	first, err := Build(testRoster(), 2025, time.June, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 25; i++ {
		again, err := Build(testRoster(), 2025, time.June, 10)
		if err != nil {
			t.Fatal(err)
		}
		for j := range first.Entries {
			if again.Entries[j].Subject.ID != first.Entries[j].Subject.ID {
				t.Fatalf("run %d day %d: %s vs %s", i, again.Entries[j].DayOfMonth,
					again.Entries[j].Subject.ID, first.Entries[j].Subject.ID)
			}
		}
	}
}

func TestBuildMonthsDiffer(t *testing.T) {
	june, _ := Build(testRoster(), 2025, time.June, 10)
	july, _ := Build(testRoster(), 2025, time.July, 10)

	same := true
	for i := range june.Entries {
		if june.Entries[i].Subject.ID != july.Entries[i].Subject.ID {
			same = false
			break
		}
	}
	if same {
		t.Fatal("June and July produced the same permutation")
	}
}

func TestEntryFor(t *testing.T) {
	m, _ := Build(testRoster(), 2025, time.July, 10)

	if _, ok := m.EntryFor(21); ok {
		t.Error("day 21 should be outside the window")
	}
	e, ok := m.EntryFor(22)
	if !ok || e.DayOfMonth != 22 {
		t.Errorf("day 22 lookup failed: %+v ok=%v", e, ok)
	}
	e, ok = m.EntryFor(31)
	if !ok || e.DayOfMonth != 31 {
		t.Errorf("day 31 lookup failed: %+v ok=%v", e, ok)
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	if _, err := Build(nil, 2025, time.June, 10); err == nil {
		t.Error("empty roster accepted")
	}
	if _, err := Build(testRoster(), 2025, time.June, 0); err == nil {
		t.Error("zero window accepted")
	}
}

func newTestCalculator() *Calculator {
	// 9 PM local, UTC+6, 25/30 minute durations, 20-day publish lead.
	return NewCalculator(21, 6, 25, 30, 20)
}

func TestWindowInstants(t *testing.T) {
	c := newTestCalculator()
	subj := model.Subject{ID: "math", Name: "Math"}

	w := c.WindowFor(2025, time.June, 21, subj)

	// 21:00 at UTC+6 is 15:00 UTC.
	wantStart := time.Date(2025, time.June, 21, 15, 0, 0, 0, time.UTC)
	if !w.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", w.Start.UTC(), wantStart)
	}
	if got := w.End.Sub(w.Start); got != time.Duration(w.DurationMinutes)*time.Minute {
		t.Errorf("end-start = %v, duration says %d min", got, w.DurationMinutes)
	}
}

func TestWindowDurationBySubjectCategory(t *testing.T) {
	c := newTestCalculator()

	short := c.WindowFor(2025, time.June, 21, model.Subject{ID: "physics", ShortDuration: true})
	if short.DurationMinutes != 25 {
		t.Errorf("short subject duration = %d, want 25", short.DurationMinutes)
	}

	std := c.WindowFor(2025, time.June, 21, model.Subject{ID: "math"})
	if std.DurationMinutes != 30 {
		t.Errorf("standard subject duration = %d, want 30", std.DurationMinutes)
	}
}

func TestWindowContains(t *testing.T) {
	c := newTestCalculator()
	w := c.WindowFor(2025, time.June, 21, model.Subject{ID: "math"})

	if w.Contains(w.Start.Add(-time.Second)) {
		t.Error("instant before start reported inside")
	}
	if !w.Contains(w.Start) || !w.Contains(w.End) {
		t.Error("window bounds should be inclusive")
	}
	if w.Contains(w.End.Add(time.Second)) {
		t.Error("instant after end reported inside")
	}
}

func TestPublishInstant(t *testing.T) {
	c := newTestCalculator()

	// 31-day month: window starts day 22, publish day = max(1, 22-20) = 2.
	pub := c.PublishInstant(2025, time.July, 22)
	want := time.Date(2025, time.July, 2, 0, 0, 0, 0, c.Zone())
	if !pub.Equal(want) {
		t.Errorf("publish = %v, want %v", pub, want)
	}

	// Lead larger than available days clamps to day 1.
	clamped := c.PublishInstant(2025, time.July, 5)
	wantClamped := time.Date(2025, time.July, 1, 0, 0, 0, 0, c.Zone())
	if !clamped.Equal(wantClamped) {
		t.Errorf("clamped publish = %v, want %v", clamped, wantClamped)
	}
}

func TestPublished(t *testing.T) {
	c := newTestCalculator()
	pub := c.PublishInstant(2025, time.July, 22)

	if c.Published(pub.Add(-time.Minute), 2025, time.July, 22) {
		t.Error("minute before publish should be hidden")
	}
	if !c.Published(pub, 2025, time.July, 22) {
		t.Error("publish instant itself should be visible")
	}
}

func TestLastDayOfMonth(t *testing.T) {
	cases := map[time.Month]int{
		time.January:  31,
		time.April:    30,
		time.February: 28,
	}
	for month, want := range cases {
		if got := LastDayOfMonth(2025, month); got != want {
			t.Errorf("%v: %d, want %d", month, got, want)
		}
	}
	if got := LastDayOfMonth(2024, time.February); got != 29 {
		t.Errorf("leap February: %d, want 29", got)
	}
}
