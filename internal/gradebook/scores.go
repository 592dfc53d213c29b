package gradebook

import (
	"strings"

	"github.com/volatiletech/null/v8"
)

// Scale maps the categorical codes teachers type into a score in [0,1].
type Scale map[string]float64

// Score decodes code. Unknown or blank codes are missing, not zero.
func (s Scale) Score(code string) null.Float64 {
	v, ok := s[strings.TrimSpace(code)]
	return null.NewFloat64(v, ok)
}

var (
	// PresenceScale: present, half the class, absent.
	PresenceScale = Scale{"P": 1.0, "1/2": 0.5, "A": 0.0}
	// HomeworkScale: delivered, partially delivered, not delivered.
	HomeworkScale = Scale{"√": 1.0, "+/-": 0.5, "N": 0.0}
	// ParticipationScale reads the emoji the teacher records for class climate.
	ParticipationScale = Scale{":-D": 1.0, ":-/": 0.5, ":-&": 0.0}
)
