package exporter

import (
	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

// StudentHeaders are the columns of the student summary export.
var StudentHeaders = []string{
	"Nome_Completo", "Sala", "Num", "Feedback",
	"Media_Provas", "Nota_Final", "Situacao_Final",
	"Score_Presenca", "Score_Homework", "Score_Participacao",
	"Aulas", "Aulas_Presente", "Status_Risco", "Tamanho",
}

// PanelHeaders are the columns of the panel export.
var PanelHeaders = []string{
	"Nome_Completo", "Aula", "Data_Original", "Data",
	"Pre_Class", "Presenca", "Homework", "Participacao", "Comportamento",
	"Score_Presenca", "Score_Homework", "Score_Participacao",
}

// Students renders the student summary table.
func Students(students []domain.StudentSummary) ([]string, [][]string) {
	records := make([][]string, 0, len(students))
	for _, s := range students {
		records = append(records, []string{
			s.Name,
			s.Room,
			s.Number,
			s.Feedback,
			examAverage(s.Student),
			formatFloat(s.FinalGrade),
			s.FinalStatus,
			formatNullFloat(s.PresenceScore),
			formatNullFloat(s.HomeworkScore),
			formatNullFloat(s.ParticipationScore),
			formatInt(s.Sessions),
			formatInt(s.SessionsPresent),
			s.Risk.Label(),
			formatFloat(s.MarkerSize),
		})
	}
	return StudentHeaders, records
}

// examAverage falls back to the text typed in the sheet when it is not a
// number.
func examAverage(s domain.Student) string {
	if s.ExamAverage.Valid {
		return formatNullFloat(s.ExamAverage)
	}
	return s.ExamAverageRaw
}

// Panel renders one row per (student, session).
func Panel(panel []domain.SessionRecord) ([]string, [][]string) {
	records := make([][]string, 0, len(panel))
	for _, r := range panel {
		records = append(records, []string{
			r.Student,
			formatInt(r.SessionIndex),
			r.SessionLabel,
			formatNullDate(r.Date),
			r.PreClass,
			r.Presence,
			r.Homework,
			r.Participation,
			r.Behavior,
			formatNullFloat(r.PresenceScore),
			formatNullFloat(r.HomeworkScore),
			formatNullFloat(r.ParticipationScore),
		})
	}
	return PanelHeaders, records
}
