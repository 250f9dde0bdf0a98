package paper

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spakle/amarquiz-backend/internal/prng"
)

// SessionSeed is the seed string that pins a (date, subject) pair to one
// paper variant. A student reloading mid-exam derives the same seed and so
// the same paper.
func SessionSeed(year int, month time.Month, day int, subjectID string) string {
	return fmt.Sprintf("%04d-%02d-%02d|%s", year, int(month), day, subjectID)
}

// PickIndex deterministically selects a variant index in [0, count) from one
// draw of a fresh generator seeded by the session seed.
func PickIndex(seed string, count int) int {
	return prng.FromString(seed).IntN(count)
}

// PickRandom selects a uniform variant index in [0, count), reseeded per
// call. Used only when deterministic selection is disabled; the two modes are
// never mixed within one session.
func PickRandom(count int) int {
	return rand.IntN(count)
}
