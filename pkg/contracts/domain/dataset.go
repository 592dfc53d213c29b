package domain

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// SourceFormat is the kind of file a dataset was loaded from.
type SourceFormat string

const (
	FormatExcel SourceFormat = "xlsx"
	FormatCSV   SourceFormat = "csv"
)

// Means holds class-level averages of the per-student scores.
type Means struct {
	Presence null.Float64 `json:"presence"`
	Homework null.Float64 `json:"homework"`
}

// Thresholds are the cut points of the risk quadrants. By default they
// equal the population Means.
type Thresholds struct {
	Presence null.Float64 `json:"presence"`
	Homework null.Float64 `json:"homework"`
}

// Dataset is the result of extracting one uploaded gradebook.
type Dataset struct {
	ID       string       `json:"id"`
	FileName string       `json:"file_name"`
	Format   SourceFormat `json:"format"`
	LoadedAt time.Time    `json:"loaded_at"`

	HeaderRow int `json:"header_row"` // row holding the block marker

	Students   []StudentSummary `json:"students"`
	Sessions   []Session        `json:"sessions"`
	Panel      []SessionRecord  `json:"panel"`
	Means      Means            `json:"means"`
	Thresholds Thresholds       `json:"thresholds"`
}

// DatasetInfo is the lightweight description of a Dataset.
type DatasetInfo struct {
	ID       string       `json:"id"`
	FileName string       `json:"file_name"`
	Format   SourceFormat `json:"format"`
	LoadedAt time.Time    `json:"loaded_at"`
	Students int          `json:"students"`
	Sessions int          `json:"sessions"`
	Records  int          `json:"records"`
	Cached   bool         `json:"cached"`
}

// Info summarises the dataset.
func (d *Dataset) Info() DatasetInfo {
	return DatasetInfo{
		ID:       d.ID,
		FileName: d.FileName,
		Format:   d.Format,
		LoadedAt: d.LoadedAt,
		Students: len(d.Students),
		Sessions: len(d.Sessions),
		Records:  len(d.Panel),
	}
}

// FindStudent returns the summary for the student with the given name.
func (d *Dataset) FindStudent(name string) (StudentSummary, bool) {
	for _, s := range d.Students {
		if s.Name == name {
			return s, true
		}
	}
	return StudentSummary{}, false
}

// StudentHistory returns the panel rows of one student in sheet order.
func (d *Dataset) StudentHistory(name string) []SessionRecord {
	var out []SessionRecord
	for _, r := range d.Panel {
		if r.Student == name {
			out = append(out, r)
		}
	}
	return out
}
