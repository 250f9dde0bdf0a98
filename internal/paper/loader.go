package paper

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spakle/amarquiz-backend/internal/model"
)

// Loader reads per-subject paper documents from a directory on disk.
type Loader struct {
	dir string
}

// NewLoader returns a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load reads and parses the paper document for a subject. A missing or
// unreadable file is a load error; a parsable file with no usable content
// surfaces ErrNoPaperData via ParsePool.
func (l *Loader) Load(subject model.Subject) (*Pool, error) {
	path := filepath.Join(l.dir, filepath.Base(subject.File))

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read paper document %s: %w", path, err)
	}

	pool, err := ParsePool(raw)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", path, err)
	}
	return pool, nil
}
