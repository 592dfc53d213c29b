package domain

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Overview holds the headline KPIs of a class.
type Overview struct {
	Students       int                  `json:"students"`
	Sessions       int                  `json:"sessions"`
	MeanFinalGrade null.Float64         `json:"mean_final_grade"`
	MeanPresence   null.Float64         `json:"mean_presence"`
	MeanHomework   null.Float64         `json:"mean_homework"`
	AtRisk         int                  `json:"at_risk"`
	RiskCounts     map[RiskCategory]int `json:"risk_counts"`
}

// MetricStats are descriptive statistics of one numeric column.
type MetricStats struct {
	Metric string  `json:"metric"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// TrendPoint is the class mean presence on one dated session.
type TrendPoint struct {
	Date         time.Time `json:"date"`
	Label        string    `json:"label"`
	MeanPresence float64   `json:"mean_presence"`
	Students     int       `json:"students"`
}

// CorrelationPoint places a student on the presence × final grade plane.
type CorrelationPoint struct {
	Student     string  `json:"student"`
	Presence    float64 `json:"presence"`
	FinalGrade  float64 `json:"final_grade"`
	FinalStatus string  `json:"final_status"`
}

// RegressionFit is an ordinary least squares fit y = Intercept + Slope*x.
type RegressionFit struct {
	Group     string  `json:"group"`
	N         int     `json:"n"`
	Valid     bool    `json:"valid"`
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
	XMin      float64 `json:"x_min"`
	XMax      float64 `json:"x_max"`
}

// Predict evaluates the fitted line at x.
func (f RegressionFit) Predict(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// Correlation is the presence versus final grade view.
type Correlation struct {
	Points  []CorrelationPoint `json:"points"`
	Overall RegressionFit      `json:"overall"`
	Groups  []RegressionFit    `json:"groups"`
}

// ParticipationCount counts one participation code over the panel.
type ParticipationCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// QuadrantPoint places a student on the presence × homework plane.
type QuadrantPoint struct {
	Student    string       `json:"student"`
	Presence   null.Float64 `json:"presence"`
	Homework   null.Float64 `json:"homework"`
	FinalGrade float64      `json:"final_grade"`
	MarkerSize float64      `json:"marker_size"`
	Risk       RiskCategory `json:"risk"`
	RiskLabel  string       `json:"risk_label"`
}

// Quadrant is the risk matrix with the thresholds that produced it.
type Quadrant struct {
	Thresholds Thresholds      `json:"thresholds"`
	Points     []QuadrantPoint `json:"points"`
}

// RiskListEntry is one line of a call list, with display-ready values.
type RiskListEntry struct {
	Student      string       `json:"student"`
	FinalGrade   float64      `json:"final_grade"`
	Presence     null.Float64 `json:"presence"`
	Homework     null.Float64 `json:"homework"`
	FinalStatus  string       `json:"final_status"`
	GradeText    string       `json:"grade_text"`
	PresenceText string       `json:"presence_text"`
	HomeworkText string       `json:"homework_text"`
}

// RiskList is the call list of one category.
type RiskList struct {
	Category RiskCategory    `json:"category"`
	Label    string          `json:"label"`
	Entries  []RiskListEntry `json:"entries"`
}

// StudentProfile is the within-student view.
type StudentProfile struct {
	Summary StudentSummary  `json:"summary"`
	History []SessionRecord `json:"history"`
}
