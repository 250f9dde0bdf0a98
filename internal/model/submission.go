package model

import (
	"time"

	"github.com/google/uuid"
)

// Submission is the one record produced per exam session. It is append-only:
// the storage layer never mutates a submission in place.
type Submission struct {
	ID           uuid.UUID      `json:"id"`
	SessionID    uuid.UUID      `json:"session_id"`
	PersonalKey  string         `json:"personal_key"`
	SubjectID    string         `json:"subject_id"`
	SubjectName  string         `json:"subject_name"`
	PaperID      string         `json:"paper_id"`
	Alias        string         `json:"alias,omitempty"`
	StudentName  string         `json:"student_name,omitempty"`
	StudentEmail string         `json:"student_email,omitempty"`
	Totals       Totals         `json:"totals"`
	ResultSheet  *ResultSheet   `json:"result_sheet"`
	Answers      map[string]int `json:"answers"`
	IsAuto       bool           `json:"is_auto"`
	TimestampUTC time.Time      `json:"timestamp_utc"`
}

// AnswerRequest records one option choice for a question.
type AnswerRequest struct {
	QuestionID  string `json:"question_id" binding:"required,max=100"`
	OptionIndex int    `json:"option_index" binding:"min=0,max=25"`
}
