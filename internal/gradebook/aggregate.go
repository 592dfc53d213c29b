package gradebook

import (
	"github.com/volatiletech/null/v8"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v null.Float64) {
	if v.Valid {
		a.sum += v.Float64
		a.n++
	}
}

func (a meanAcc) mean() null.Float64 {
	if a.n == 0 {
		return null.Float64{}
	}
	return null.Float64From(a.sum / float64(a.n))
}

type studentAcc struct {
	presence, homework, participation meanAcc
	sessions, present                 int
}

// Aggregate computes per-student means over the panel and left-joins them
// onto the cross-section. Students with no scored session keep null
// means. Risk is left unset; see ApplyRisk.
func Aggregate(students []domain.Student, panel []domain.SessionRecord) []domain.StudentSummary {
	byName := make(map[string]*studentAcc)
	for _, rec := range panel {
		acc, ok := byName[rec.Student]
		if !ok {
			acc = &studentAcc{}
			byName[rec.Student] = acc
		}
		acc.presence.add(rec.PresenceScore)
		acc.homework.add(rec.HomeworkScore)
		acc.participation.add(rec.ParticipationScore)
		acc.sessions++
		if rec.PresenceScore.Valid && rec.PresenceScore.Float64 > 0 {
			acc.present++
		}
	}

	out := make([]domain.StudentSummary, 0, len(students))
	for _, s := range students {
		summary := domain.StudentSummary{
			Student:    s,
			MarkerSize: s.FinalGrade + 2,
		}
		if acc, ok := byName[s.Name]; ok {
			summary.PresenceScore = acc.presence.mean()
			summary.HomeworkScore = acc.homework.mean()
			summary.ParticipationScore = acc.participation.mean()
			summary.Sessions = acc.sessions
			summary.SessionsPresent = acc.present
		}
		out = append(out, summary)
	}
	return out
}

// PopulationMeans averages the per-student means over the students that
// have one.
func PopulationMeans(summaries []domain.StudentSummary) domain.Means {
	var presence, homework meanAcc
	for _, s := range summaries {
		presence.add(s.PresenceScore)
		homework.add(s.HomeworkScore)
	}
	return domain.Means{Presence: presence.mean(), Homework: homework.mean()}
}

// DefaultThresholds cuts the quadrants at the population means.
func DefaultThresholds(m domain.Means) domain.Thresholds {
	return domain.Thresholds{Presence: m.Presence, Homework: m.Homework}
}

// below reports v < t. Any null operand gives false.
func below(v, t null.Float64) bool {
	return v.Valid && t.Valid && v.Float64 < t.Float64
}

// atOrAbove reports v >= t. Any null operand gives false.
func atOrAbove(v, t null.Float64) bool {
	return v.Valid && t.Valid && v.Float64 >= t.Float64
}

// Classify places a student in a risk quadrant. A student whose scores
// cannot be compared falls through to ideal.
func Classify(s domain.StudentSummary, t domain.Thresholds) domain.RiskCategory {
	lowPresence := below(s.PresenceScore, t.Presence)
	lowHomework := below(s.HomeworkScore, t.Homework)

	switch {
	case lowPresence && lowHomework:
		return domain.RiskCritical
	case atOrAbove(s.PresenceScore, t.Presence) && lowHomework:
		return domain.RiskTourist
	case lowPresence && atOrAbove(s.HomeworkScore, t.Homework):
		return domain.RiskSelfTaught
	default:
		return domain.RiskIdeal
	}
}

// ApplyRisk returns a copy of summaries classified against t.
func ApplyRisk(summaries []domain.StudentSummary, t domain.Thresholds) []domain.StudentSummary {
	out := make([]domain.StudentSummary, len(summaries))
	for i, s := range summaries {
		s.Risk = Classify(s, t)
		out[i] = s
	}
	return out
}
