package domain

import (
	"github.com/volatiletech/null/v8"
)

// Session identifies one repeating column block of the gradebook.
type Session struct {
	Index int       `json:"index"` // 1-based block number
	Label string    `json:"label"`
	Date  null.Time `json:"date"`
}

// SessionRecord is one (student, session) row of the panel.
type SessionRecord struct {
	Student      string    `json:"student"`
	SessionIndex int       `json:"session_index"`
	SessionLabel string    `json:"session_label"`
	Date         null.Time `json:"date"`

	PreClass      string `json:"pre_class"`
	Presence      string `json:"presence"`
	Homework      string `json:"homework"`
	Participation string `json:"participation"`
	Behavior      string `json:"behavior"`

	PresenceScore      null.Float64 `json:"presence_score"`
	HomeworkScore      null.Float64 `json:"homework_score"`
	ParticipationScore null.Float64 `json:"participation_score"`
}
