package session

import (
	"time"

	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/paper"
)

// CompileResult scores a frozen answers map against the active paper. Pure:
// the same inputs always yield an identical sheet.
//
// Scoring rules: a question with no answer key scores nil (unscored pool). A
// keyed question left unanswered counts as wrong AND as unanswered — the
// totals are simple counts over the per-question rows, not a partition.
func CompileResult(p *paper.Paper, answers map[string]int, startedAt, submittedAt time.Time) *model.ResultSheet {
	rows := make([]model.ResultRow, len(p.Questions))
	var totals model.Totals
	totals.Total = len(p.Questions)

	for i, q := range p.Questions {
		row := model.ResultRow{QuestionID: q.ID}

		if chosen, ok := answers[q.ID]; ok {
			c := chosen
			row.Chosen = &c
		} else {
			totals.Unanswered++
		}

		if q.Answer != nil {
			correct := *q.Answer
			row.Correct = &correct
			isCorrect := row.Chosen != nil && *row.Chosen == correct
			row.IsCorrect = &isCorrect
			if isCorrect {
				totals.Correct++
			} else {
				totals.Wrong++
			}
		}

		rows[i] = row
	}

	elapsed := int(submittedAt.Sub(startedAt).Round(time.Second) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	return &model.ResultSheet{
		PerQuestion:    rows,
		Totals:         totals,
		ElapsedSeconds: elapsed,
	}
}
