package gradebook

import (
	"fmt"
	"strings"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

// ExtractPanel walks the session blocks left to right, starting at the
// first block column and stopping at the first column whose label is not
// the marker. It returns the sessions found and one record per
// (student, session), session-major.
func ExtractPanel(g Grid, pos HeaderPosition, layout Layout) ([]domain.Session, []domain.SessionRecord) {
	marker := foldText(layout.MarkerLabel)
	width := g.Width()

	var sessions []domain.Session
	var records []domain.SessionRecord

	for col := layout.FirstBlockColumn; col < width; col += layout.BlockWidth {
		if foldText(g.Cell(pos.LabelRow, col)) != marker {
			break
		}

		session := newSession(g, pos, layout, col)
		sessions = append(sessions, session)

		for r := pos.FirstDataRow(); r < len(g); r++ {
			name := strings.TrimSpace(g.Cell(r, layout.NameColumn))
			if name == "" {
				continue
			}

			rec := domain.SessionRecord{
				Student:       name,
				SessionIndex:  session.Index,
				SessionLabel:  session.Label,
				Date:          session.Date,
				PreClass:      strings.TrimSpace(g.Cell(r, col)),
				Presence:      strings.TrimSpace(g.Cell(r, col+1)),
				Homework:      strings.TrimSpace(g.Cell(r, col+2)),
				Participation: strings.TrimSpace(g.Cell(r, col+3)),
				Behavior:      strings.TrimSpace(g.Cell(r, col+4)),
			}
			rec.PresenceScore = PresenceScale.Score(rec.Presence)
			rec.HomeworkScore = HomeworkScale.Score(rec.Homework)
			rec.ParticipationScore = ParticipationScale.Score(rec.Participation)

			records = append(records, rec)
		}
	}
	return sessions, records
}

// newSession derives the time label of the block starting at col. Blocks
// without a date get a positional "Aula_<n>" label.
func newSession(g Grid, pos HeaderPosition, layout Layout, col int) domain.Session {
	index := (col-layout.FirstBlockColumn)/layout.BlockWidth + 1

	label := ""
	if pos.DateRow >= 0 {
		label = strings.TrimSpace(g.Cell(pos.DateRow, col))
	}
	if label == "" {
		label = fmt.Sprintf("Aula_%d", index)
	}

	date := ParseSessionDate(label)
	// Excel dates come in as serial numbers; show them as dates.
	if _, numeric := ParseNumber(label); numeric && date.Valid {
		label = date.Time.Format("2006-01-02")
	}

	return domain.Session{Index: index, Label: label, Date: date}
}
