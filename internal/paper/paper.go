// Package paper loads per-subject question documents and normalizes them
// into one canonical Paper shape. Source documents come in two dialects: a
// flat "papers" array, or a "sets" array of raw question rows. Both are
// external data — malformed input surfaces as a typed error, never a panic.
package paper

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoPaperData marks a document that parsed but carries neither a
	// papers nor a sets array.
	ErrNoPaperData = errors.New("document has no papers or sets")
	// ErrEmptyPaper marks a selected paper with a missing or empty
	// questions array.
	ErrEmptyPaper = errors.New("paper has no questions")
)

// Option is one answer choice: plain text, an image, or both.
type Option struct {
	Text     string `json:"text,omitempty"`
	Image    string `json:"image,omitempty"`
	ImageAlt string `json:"image_alt,omitempty"`
}

// UnmarshalJSON accepts either a bare string or an option object.
func (o *Option) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Text = s
		return nil
	}

	var obj struct {
		Text     string `json:"text"`
		Image    string `json:"image"`
		ImageAlt string `json:"imageAlt"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("option is neither string nor object: %w", err)
	}
	o.Text = obj.Text
	o.Image = obj.Image
	o.ImageAlt = obj.ImageAlt
	return nil
}

// Question is one normalized multiple-choice question. Answer is nil when the
// source pool carries no answer key (unscored).
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Image    string   `json:"image,omitempty"`
	ImageAlt string   `json:"image_alt,omitempty"`
	Options  []Option `json:"options"`
	Answer   *int     `json:"answer,omitempty"`
}

// Paper is the canonical selectable unit: one variant of a subject's exam.
type Paper struct {
	PaperID   string     `json:"paper_id"`
	Alias     string     `json:"alias,omitempty"`
	Questions []Question `json:"questions"`
}

// rawPaperQuestion mirrors one entry of a "papers" document.
type rawPaperQuestion struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Image    string   `json:"image"`
	ImageAlt string   `json:"imageAlt"`
	Options  []Option `json:"options"`
	Answer   *int     `json:"answer"`
}

type rawPaper struct {
	PaperID   string             `json:"paperId"`
	ID        string             `json:"id"`
	Questions []rawPaperQuestion `json:"questions"`
}

// rawSetQuestion mirrors one entry of a "sets" document, which uses the
// compact q/a/correct field names.
type rawSetQuestion struct {
	Q       string   `json:"q"`
	Text    string   `json:"text"`
	A       []Option `json:"a"`
	Options []Option `json:"options"`
	Correct *int     `json:"correct"`
	Answer  *int     `json:"answer"`
}

type rawSet struct {
	ID        string           `json:"id"`
	Alias     string           `json:"alias"`
	Questions []rawSetQuestion `json:"questions"`
}

type document struct {
	Papers []rawPaper `json:"papers"`
	Sets   []rawSet   `json:"sets"`
	Alias  string     `json:"alias"`
	Board  string     `json:"board"`
}

// Pool is a parsed per-subject document: a pool of candidate paper variants.
type Pool struct {
	doc document
}

// ParsePool decodes a raw paper document.
func ParsePool(raw []byte) (*Pool, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse paper document: %w", err)
	}
	if len(doc.Papers) == 0 && len(doc.Sets) == 0 {
		return nil, ErrNoPaperData
	}
	return &Pool{doc: doc}, nil
}

// Count returns the number of candidate variants in the pool.
func (p *Pool) Count() int {
	if len(p.doc.Papers) > 0 {
		return len(p.doc.Papers)
	}
	return len(p.doc.Sets)
}

// PaperAt normalizes the variant at index idx into the canonical shape.
func (p *Pool) PaperAt(idx int) (*Paper, error) {
	if idx < 0 || idx >= p.Count() {
		return nil, fmt.Errorf("paper index %d out of range [0,%d)", idx, p.Count())
	}

	if len(p.doc.Papers) > 0 {
		return p.normalizePaper(idx)
	}
	return p.normalizeSet(idx)
}

func (p *Pool) normalizePaper(idx int) (*Paper, error) {
	src := p.doc.Papers[idx]

	id := src.PaperID
	if id == "" {
		id = src.ID
	}
	if id == "" {
		id = fmt.Sprintf("paper%d", idx+1)
	}

	if len(src.Questions) == 0 {
		return nil, fmt.Errorf("paper %s: %w", id, ErrEmptyPaper)
	}

	alias := p.doc.Alias
	if alias == "" {
		alias = p.doc.Board
	}

	questions := make([]Question, len(src.Questions))
	for i, q := range src.Questions {
		qid := q.ID
		if qid == "" {
			qid = fmt.Sprintf("q%d", i+1)
		}
		questions[i] = Question{
			ID:       qid,
			Text:     q.Text,
			Image:    q.Image,
			ImageAlt: q.ImageAlt,
			Options:  q.Options,
			Answer:   q.Answer,
		}
	}

	return &Paper{PaperID: id, Alias: alias, Questions: questions}, nil
}

func (p *Pool) normalizeSet(idx int) (*Paper, error) {
	src := p.doc.Sets[idx]

	if len(src.Questions) == 0 {
		return nil, fmt.Errorf("set %s: %w", src.ID, ErrEmptyPaper)
	}

	questions := make([]Question, len(src.Questions))
	for i, q := range src.Questions {
		text := q.Q
		if text == "" {
			text = q.Text
		}
		if text == "" {
			text = fmt.Sprintf("Q%d", i+1)
		}
		options := q.A
		if len(options) == 0 {
			options = q.Options
		}
		answer := q.Correct
		if answer == nil {
			answer = q.Answer
		}
		questions[i] = Question{
			ID:      fmt.Sprintf("%s-q%d", src.ID, i+1),
			Text:    text,
			Options: options,
			Answer:  answer,
		}
	}

	return &Paper{PaperID: src.ID, Alias: src.Alias, Questions: questions}, nil
}

// StudentView returns a copy of the paper with the answer key stripped, safe
// to hand to clients before submission.
func (pp *Paper) StudentView() *Paper {
	out := &Paper{PaperID: pp.PaperID, Alias: pp.Alias, Questions: make([]Question, len(pp.Questions))}
	for i, q := range pp.Questions {
		q.Answer = nil
		out.Questions[i] = q
	}
	return out
}

// AnswerKey maps question id to the correct option index; questions without a
// key are omitted.
func (pp *Paper) AnswerKey() map[string]int {
	key := make(map[string]int, len(pp.Questions))
	for _, q := range pp.Questions {
		if q.Answer != nil {
			key[q.ID] = *q.Answer
		}
	}
	return key
}
