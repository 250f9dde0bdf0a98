package paper

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spakle/amarquiz-backend/internal/model"
)

const papersDoc = `{
  "alias": "Dhaka Board",
  "papers": [
    {
      "paperId": "set-a",
      "questions": [
        {"id": "qa1", "text": "2+2?", "options": ["3", "4", "5", "6"], "answer": 1},
        {"text": "Capital?", "options": [{"text": "Dhaka", "image": "dhaka.png"}, "Khulna"], "answer": 0}
      ]
    },
    {
      "questions": [
        {"text": "Unscored", "options": ["x", "y"]}
      ]
    }
  ]
}`

const setsDoc = `{
  "sets": [
    {
      "id": "board-2019",
      "alias": "Board 2019",
      "questions": [
        {"q": "First?", "a": ["one", "two"], "correct": 0},
        {"text": "Second?", "options": ["three", "four"], "answer": 1},
        {"a": ["five", "six"]}
      ]
    }
  ]
}`

func TestParsePapersDialect(t *testing.T) {
	pool, err := ParsePool([]byte(papersDoc))
	if err != nil {
		t.Fatal(err)
	}
	if pool.Count() != 2 {
		t.Fatalf("count = %d, want 2", pool.Count())
	}

	p, err := pool.PaperAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if p.PaperID != "set-a" || p.Alias != "Dhaka Board" {
		t.Errorf("paper id/alias = %q/%q", p.PaperID, p.Alias)
	}
	if len(p.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(p.Questions))
	}
	if p.Questions[0].ID != "qa1" || p.Questions[1].ID != "q2" {
		t.Errorf("question ids = %q, %q", p.Questions[0].ID, p.Questions[1].ID)
	}
	if p.Questions[0].Answer == nil || *p.Questions[0].Answer != 1 {
		t.Error("answer index lost in normalization")
	}
	if p.Questions[1].Options[0].Image != "dhaka.png" {
		t.Error("image option not parsed")
	}

	// Missing paperId falls back to positional naming.
	p2, err := pool.PaperAt(1)
	if err != nil {
		t.Fatal(err)
	}
	if p2.PaperID != "paper2" {
		t.Errorf("fallback paper id = %q, want paper2", p2.PaperID)
	}
	if p2.Questions[0].Answer != nil {
		t.Error("unscored question should have nil answer")
	}
}

func TestParseSetsDialect(t *testing.T) {
	pool, err := ParsePool([]byte(setsDoc))
	if err != nil {
		t.Fatal(err)
	}
	if pool.Count() != 1 {
		t.Fatalf("count = %d, want 1", pool.Count())
	}

	p, err := pool.PaperAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if p.PaperID != "board-2019" || p.Alias != "Board 2019" {
		t.Errorf("paper id/alias = %q/%q", p.PaperID, p.Alias)
	}

	q := p.Questions
	if q[0].ID != "board-2019-q1" || q[0].Text != "First?" {
		t.Errorf("q1 = %+v", q[0])
	}
	if q[0].Answer == nil || *q[0].Answer != 0 {
		t.Error("q1 correct index lost")
	}
	// Fallback field names: text/options/answer.
	if q[1].Text != "Second?" || len(q[1].Options) != 2 || q[1].Answer == nil || *q[1].Answer != 1 {
		t.Errorf("q2 = %+v", q[1])
	}
	// No text at all synthesizes a placeholder; no key means nil answer.
	if q[2].Text != "Q3" || q[2].Answer != nil {
		t.Errorf("q3 = %+v", q[2])
	}
}

func TestParseSchemaErrors(t *testing.T) {
	if _, err := ParsePool([]byte(`{"title": "no arrays"}`)); !errors.Is(err, ErrNoPaperData) {
		t.Errorf("missing arrays: err = %v, want ErrNoPaperData", err)
	}

	pool, err := ParsePool([]byte(`{"papers": [{"paperId": "empty"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pool.PaperAt(0); !errors.Is(err, ErrEmptyPaper) {
		t.Errorf("empty paper: err = %v, want ErrEmptyPaper", err)
	}

	if _, err := ParsePool([]byte(`not json`)); err == nil {
		t.Error("malformed JSON accepted")
	}
}

func TestStudentViewStripsAnswers(t *testing.T) {
	pool, _ := ParsePool([]byte(papersDoc))
	p, _ := pool.PaperAt(0)

	view := p.StudentView()
	for _, q := range view.Questions {
		if q.Answer != nil {
			t.Fatalf("question %s leaked its answer", q.ID)
		}
	}
	// Original untouched.
	if p.Questions[0].Answer == nil {
		t.Fatal("StudentView mutated the source paper")
	}
}

func TestAnswerKey(t *testing.T) {
	pool, _ := ParsePool([]byte(papersDoc))
	p, _ := pool.PaperAt(0)

	key := p.AnswerKey()
	if len(key) != 2 {
		t.Fatalf("key size = %d, want 2", len(key))
	}
	if key["qa1"] != 1 {
		t.Errorf("qa1 key = %d, want 1", key["qa1"])
	}
}

func TestSessionSeedFormat(t *testing.T) {
	got := SessionSeed(2025, time.June, 15, "physics")
	if got != "2025-06-15|physics" {
		t.Fatalf("seed = %q", got)
	}
}

func TestPickIndexDeterministic(t *testing.T) {
	seed := SessionSeed(2025, time.June, 15, "physics")
	first := PickIndex(seed, 3)
	if first < 0 || first >= 3 {
		t.Fatalf("index %d out of range", first)
	}
	for i := 0; i < 50; i++ {
		if got := PickIndex(seed, 3); got != first {
			t.Fatalf("run %d: index %d, want %d", i, got, first)
		}
	}
}

func TestPickIndexVariesWithSeed(t *testing.T) {
	counts := make(map[int]bool)
	for day := 1; day <= 30; day++ {
		counts[PickIndex(SessionSeed(2025, time.June, day, "physics"), 5)] = true
	}
	if len(counts) < 2 {
		t.Fatal("30 distinct seeds all picked the same variant")
	}
}

func TestPickRandomRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		if v := PickRandom(4); v < 0 || v >= 4 {
			t.Fatalf("PickRandom(4) = %d", v)
		}
	}
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "physics.json"), []byte(papersDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir)

	pool, err := l.Load(model.Subject{ID: "physics", File: "physics.json"})
	if err != nil {
		t.Fatal(err)
	}
	if pool.Count() != 2 {
		t.Fatalf("count = %d", pool.Count())
	}

	if _, err := l.Load(model.Subject{ID: "math", File: "math.json"}); err == nil {
		t.Error("missing file accepted")
	}
}
