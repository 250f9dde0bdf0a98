package model

// ResultRow is the scored outcome of one question. Chosen is nil when the
// question was left unanswered; Correct and IsCorrect are nil when the pool
// carries no answer key for that question.
type ResultRow struct {
	QuestionID string `json:"question_id"`
	Chosen     *int   `json:"chosen_index"`
	Correct    *int   `json:"correct_index"`
	IsCorrect  *bool  `json:"is_correct"`
}

// Totals are the aggregate counts over a result sheet.
type Totals struct {
	Correct    int `json:"correct"`
	Wrong      int `json:"wrong"`
	Unanswered int `json:"unanswered"`
	Total      int `json:"total"`
}

// ResultSheet is the immutable scored breakdown of one exam attempt.
type ResultSheet struct {
	PerQuestion    []ResultRow `json:"per_question"`
	Totals         Totals      `json:"totals"`
	ElapsedSeconds int         `json:"elapsed_seconds"`
}
