package domain

import (
	"github.com/volatiletech/null/v8"
)

// Student is one row of the cross-section: the fixed columns of the
// gradebook that identify a student and carry their end-of-term result.
type Student struct {
	Name        string       `json:"name" validate:"required"`
	Feedback    string       `json:"feedback,omitempty"`
	Room        string       `json:"room,omitempty"`
	Number      string       `json:"number,omitempty"`
	ExamAverage null.Float64 `json:"exam_average"`
	// ExamAverageRaw is the cell as typed, kept for marks such as "SR".
	ExamAverageRaw string  `json:"exam_average_raw,omitempty"`
	FinalGrade     float64 `json:"final_grade"`
	FinalStatus    string  `json:"final_status"`
	SourceRow      int     `json:"source_row"` // zero-based grid row
}

// StudentSummary joins a Student with the aggregates of their panel rows
// and the quadrant they fall into.
type StudentSummary struct {
	Student

	PresenceScore      null.Float64 `json:"presence_score"`
	HomeworkScore      null.Float64 `json:"homework_score"`
	ParticipationScore null.Float64 `json:"participation_score"`
	Sessions           int          `json:"sessions"`
	SessionsPresent    int          `json:"sessions_present"`

	Risk RiskCategory `json:"risk"`
	// MarkerSize is the bubble size used by the quadrant chart.
	MarkerSize float64 `json:"marker_size"`
}
