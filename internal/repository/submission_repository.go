package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spakle/amarquiz-backend/internal/model"
)

// SubmissionRepository handles the append-only submission log. Rows are never
// updated or deleted: a retried attempt simply appends another row.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Insert appends one submission row.
func (r *SubmissionRepository) Insert(ctx context.Context, sub *model.Submission) error {
	sheet, err := json.Marshal(sub.ResultSheet)
	if err != nil {
		return fmt.Errorf("marshal result sheet: %w", err)
	}
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO submissions
		   (id, session_id, personal_key, subject_id, subject_name, paper_id, alias,
		    student_name, student_email, total_questions, correct_count,
		    wrong_count, unanswered_count, time_taken_sec, result_sheet,
		    answers, is_auto, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		sub.ID, sub.SessionID, sub.PersonalKey, sub.SubjectID, sub.SubjectName, sub.PaperID, sub.Alias,
		sub.StudentName, sub.StudentEmail, sub.Totals.Total, sub.Totals.Correct,
		sub.Totals.Wrong, sub.Totals.Unanswered, sub.ResultSheet.ElapsedSeconds, sheet,
		answers, sub.IsAuto, sub.TimestampUTC)
	return err
}

// InsertBatch appends many submissions in one round trip via COPY.
func (r *SubmissionRepository) InsertBatch(ctx context.Context, subs []*model.Submission) error {
	if len(subs) == 0 {
		return nil
	}

	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"submissions"},
		[]string{"id", "session_id", "personal_key", "subject_id", "subject_name", "paper_id", "alias",
			"student_name", "student_email", "total_questions", "correct_count",
			"wrong_count", "unanswered_count", "time_taken_sec", "result_sheet",
			"answers", "is_auto", "submitted_at"},
		pgx.CopyFromSlice(len(subs), func(i int) ([]interface{}, error) {
			sub := subs[i]
			sheet, err := json.Marshal(sub.ResultSheet)
			if err != nil {
				return nil, fmt.Errorf("marshal result sheet: %w", err)
			}
			answers, err := json.Marshal(sub.Answers)
			if err != nil {
				return nil, fmt.Errorf("marshal answers: %w", err)
			}
			return []interface{}{
				sub.ID, sub.SessionID, sub.PersonalKey, sub.SubjectID, sub.SubjectName, sub.PaperID, sub.Alias,
				sub.StudentName, sub.StudentEmail, sub.Totals.Total, sub.Totals.Correct,
				sub.Totals.Wrong, sub.Totals.Unanswered, sub.ResultSheet.ElapsedSeconds, sheet,
				answers, sub.IsAuto, sub.TimestampUTC,
			}, nil
		}),
	)
	return err
}

// ListByPersonalKey retrieves all submissions for a student, newest first.
func (r *SubmissionRepository) ListByPersonalKey(ctx context.Context, personalKey string) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, personal_key, subject_id, subject_name, paper_id, alias,
		        student_name, student_email, total_questions, correct_count,
		        wrong_count, unanswered_count, result_sheet, answers, is_auto,
		        submitted_at
		 FROM submissions
		 WHERE personal_key = $1
		 ORDER BY submitted_at DESC`, personalKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var (
			sub        model.Submission
			sheetRaw   []byte
			answersRaw []byte
		)
		if err := rows.Scan(&sub.ID, &sub.SessionID, &sub.PersonalKey, &sub.SubjectID, &sub.SubjectName,
			&sub.PaperID, &sub.Alias, &sub.StudentName, &sub.StudentEmail,
			&sub.Totals.Total, &sub.Totals.Correct, &sub.Totals.Wrong, &sub.Totals.Unanswered,
			&sheetRaw, &answersRaw, &sub.IsAuto, &sub.TimestampUTC); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(sheetRaw, &sub.ResultSheet); err != nil {
			return nil, fmt.Errorf("unmarshal result sheet: %w", err)
		}
		if err := json.Unmarshal(answersRaw, &sub.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// CountBySubject returns how many submissions exist per subject for a student.
// Feeds the per-subject best/attempts view on the history page.
func (r *SubmissionRepository) CountBySubject(ctx context.Context, personalKey string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT subject_id, COUNT(*)
		 FROM submissions
		 WHERE personal_key = $1
		 GROUP BY subject_id`, personalKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var subjectID string
		var n int
		if err := rows.Scan(&subjectID, &n); err != nil {
			return nil, err
		}
		counts[subjectID] = n
	}
	return counts, rows.Err()
}
