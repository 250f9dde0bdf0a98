package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spakle/amarquiz-backend/internal/model"
)

// defaultSubjects is the built-in SSC-style roster used when SUBJECTS_FILE is
// not set. Order matters: the monthly shuffle permutes this exact slice.
var defaultSubjects = []model.Subject{
	{ID: "bangla-1", Name: "Bangla 1st Paper", File: "bangla-1.json"},
	{ID: "bangla-2", Name: "Bangla 2nd Paper", File: "bangla-2.json"},
	{ID: "math", Name: "Math", File: "math.json"},
	{ID: "higher-math", Name: "Higher Math", File: "higher-math.json", ShortDuration: true},
	{ID: "physics", Name: "Physics", File: "physics.json", ShortDuration: true},
	{ID: "chemistry", Name: "Chemistry", File: "chemistry.json", ShortDuration: true},
	{ID: "biology", Name: "Biology", File: "biology.json", ShortDuration: true},
	{ID: "bgs", Name: "Bangladesh & Global Studies", File: "bgs.json"},
	{ID: "ict", Name: "ICT", File: "ict.json", ShortDuration: true},
	{ID: "religion", Name: "Religion", File: "religion.json"},
}

// LoadSubjects returns the subject roster. When cfg.SubjectsFile is set it is
// read as a JSON array of subjects; otherwise the built-in roster is used.
func LoadSubjects(cfg *Config) ([]model.Subject, error) {
	if cfg.SubjectsFile == "" {
		roster := make([]model.Subject, len(defaultSubjects))
		copy(roster, defaultSubjects)
		return roster, nil
	}

	raw, err := os.ReadFile(cfg.SubjectsFile)
	if err != nil {
		return nil, fmt.Errorf("read subjects file: %w", err)
	}

	var roster []model.Subject
	if err := json.Unmarshal(raw, &roster); err != nil {
		return nil, fmt.Errorf("parse subjects file: %w", err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("subjects file %s contains no subjects", cfg.SubjectsFile)
	}

	seen := make(map[string]struct{}, len(roster))
	for _, s := range roster {
		if s.ID == "" || s.File == "" {
			return nil, fmt.Errorf("subject %q is missing id or file", s.Name)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("duplicate subject id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	return roster, nil
}
