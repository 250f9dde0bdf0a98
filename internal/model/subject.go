package model

// Subject is one entry of the assessment roster. Subjects are configuration,
// not database rows: the roster is fixed for a program and every device must
// agree on it for the seeded schedule to reproduce.
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// File names the per-subject paper document inside the quizdata dir.
	File string `json:"file"`
	// ShortDuration subjects get the reduced exam length.
	ShortDuration bool `json:"short_duration"`
}

// ScheduleEntry pairs one calendar day of the exam window with its subject.
type ScheduleEntry struct {
	DayOfMonth int     `json:"day_of_month"`
	Subject    Subject `json:"subject"`
}
