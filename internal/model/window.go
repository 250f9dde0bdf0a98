package model

import "time"

// ExamWindow is the absolute interval during which one day's exam accepts
// interaction. Once computed it never changes.
type ExamWindow struct {
	Subject         Subject   `json:"subject"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
}

// Contains reports whether t falls inside the window (inclusive bounds).
func (w ExamWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
