package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSubjectsDefaultRoster(t *testing.T) {
	roster, err := LoadSubjects(&Config{})
	if err != nil {
		t.Fatal(err)
	}
	if len(roster) != 10 {
		t.Fatalf("default roster has %d subjects", len(roster))
	}

	// A returned roster must be a copy; mutating it must not leak into the
	// package default.
	roster[0].ID = "mutated"
	again, _ := LoadSubjects(&Config{})
	if again[0].ID == "mutated" {
		t.Fatal("default roster leaked through the returned slice")
	}
}

func TestLoadSubjectsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subjects.json")
	doc := `[
		{"id": "physics", "name": "Physics", "file": "physics.json", "short_duration": true},
		{"id": "math", "name": "Math", "file": "math.json"}
	]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	roster, err := LoadSubjects(&Config{SubjectsFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if len(roster) != 2 || !roster[0].ShortDuration || roster[1].ShortDuration {
		t.Fatalf("roster = %+v", roster)
	}
}

func TestLoadSubjectsRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name string
		doc  string
	}{
		{"duplicate id", `[{"id":"a","name":"A","file":"a.json"},{"id":"a","name":"B","file":"b.json"}]`},
		{"missing file", `[{"id":"a","name":"A"}]`},
		{"empty", `[]`},
		{"not json", `nope`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".json")
			if err := os.WriteFile(path, []byte(tc.doc), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadSubjects(&Config{SubjectsFile: path}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
