package gradebook

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

func extractFixture(t *testing.T) *domain.Dataset {
	t.Helper()
	ex, err := NewExtractor(DefaultLayout(), nil)
	require.NoError(t, err)

	ds, err := ex.Extract(context.Background(), buildGrid(classFixture()))
	require.NoError(t, err)
	return ds
}

func TestExtract_CrossSection(t *testing.T) {
	ds := extractFixture(t)

	require.Len(t, ds.Students, 5, "row without a name is skipped")
	assert.Equal(t, 2, ds.HeaderRow)

	ana := ds.Students[0]
	assert.Equal(t, "Ana Souza", ana.Name)
	assert.Equal(t, "7A", ana.Room)
	assert.Equal(t, "1", ana.Number)
	assert.Equal(t, 8.5, ana.FinalGrade)
	assert.Equal(t, null.Float64From(8), ana.ExamAverage)
	assert.Equal(t, "Aprovado", ana.FinalStatus)
	assert.Equal(t, 3, ana.SourceRow)
	assert.Equal(t, 10.5, ana.MarkerSize)

	davi, ok := ds.FindStudent("Davi Rocha")
	require.True(t, ok)
	assert.False(t, davi.ExamAverage.Valid)
	assert.Equal(t, "SR", davi.ExamAverageRaw)
	assert.Equal(t, "8", ana.ExamAverageRaw)

	eva, ok := ds.FindStudent("Eva Torres")
	require.True(t, ok)
	assert.Equal(t, 0.0, eva.FinalGrade, "unparsable grade counts as zero")
	assert.Equal(t, 2.0, eva.MarkerSize)
}

func TestExtract_Panel(t *testing.T) {
	ds := extractFixture(t)

	require.Len(t, ds.Sessions, 3)
	assert.Equal(t, "11-fev-2025", ds.Sessions[0].Label)
	assert.True(t, ds.Sessions[0].Date.Valid)
	assert.Equal(t, "Aula_3", ds.Sessions[2].Label)
	assert.False(t, ds.Sessions[2].Date.Valid)

	require.Len(t, ds.Panel, 15)
	// session-major: every student of session 1 first
	for i, rec := range ds.Panel[:5] {
		assert.Equal(t, 1, rec.SessionIndex, "record %d", i)
	}
	assert.Equal(t, "Ana Souza", ds.Panel[0].Student)
	assert.Equal(t, "Bruno Lima", ds.Panel[1].Student)
	assert.Equal(t, 2, ds.Panel[5].SessionIndex)

	rec := ds.Panel[0]
	assert.Equal(t, "P", rec.Presence)
	assert.Equal(t, "√", rec.Homework)
	assert.Equal(t, ":-D", rec.Participation)
	assert.Equal(t, null.Float64From(1), rec.PresenceScore)

	history := ds.StudentHistory("Carla Dias")
	require.Len(t, history, 3)
	assert.Equal(t, "1/2", history[2].Presence)
	assert.Equal(t, null.Float64From(0.5), history[2].PresenceScore)

	evaHistory := ds.StudentHistory("Eva Torres")
	require.Len(t, evaHistory, 3)
	assert.False(t, evaHistory[0].PresenceScore.Valid)
}

func TestExtract_HistoryKeepsSheetOrder(t *testing.T) {
	ex, err := NewExtractor(DefaultLayout(), nil)
	require.NoError(t, err)

	_, students := classFixture()
	ds, err := ex.Extract(context.Background(), buildGrid([]string{"28-fev-2025", "04-mar-2025", ""}, students))
	require.NoError(t, err)

	history := ds.StudentHistory("Ana Souza")
	require.Len(t, history, 3)
	var labels []string
	for _, r := range history {
		labels = append(labels, r.SessionLabel)
	}
	assert.Equal(t, []string{"28-fev-2025", "04-mar-2025", "Aula_3"}, labels,
		"history follows the blocks, not the label text")
}

func TestExtract_AggregatesAndRisk(t *testing.T) {
	ds := extractFixture(t)

	assert.InDelta(t, 0.4583, ds.Means.Presence.Float64, 1e-3)
	assert.InDelta(t, 0.4583, ds.Means.Homework.Float64, 1e-3)
	assert.Equal(t, ds.Means.Presence, ds.Thresholds.Presence)

	tests := []struct {
		name     string
		presence null.Float64
		homework null.Float64
		present  int
		risk     domain.RiskCategory
	}{
		{"Ana Souza", null.Float64From(1), null.Float64From(2.5 / 3), 3, domain.RiskIdeal},
		{"Bruno Lima", null.Float64From(0), null.Float64From(0), 0, domain.RiskCritical},
		{"Carla Dias", null.Float64From(2.5 / 3), null.Float64From(0), 3, domain.RiskTourist},
		{"Davi Rocha", null.Float64From(0), null.Float64From(1), 0, domain.RiskSelfTaught},
		{"Eva Torres", null.Float64{}, null.Float64{}, 0, domain.RiskIdeal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := ds.FindStudent(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.presence.Valid, s.PresenceScore.Valid)
			assert.InDelta(t, tt.presence.Float64, s.PresenceScore.Float64, 1e-9)
			assert.InDelta(t, tt.homework.Float64, s.HomeworkScore.Float64, 1e-9)
			assert.Equal(t, 3, s.Sessions)
			assert.Equal(t, tt.present, s.SessionsPresent)
			assert.Equal(t, tt.risk, s.Risk)
		})
	}
}

func TestExtract_LayoutErrors(t *testing.T) {
	ex, err := NewExtractor(DefaultLayout(), nil)
	require.NoError(t, err)

	t.Run("no header", func(t *testing.T) {
		_, err := ex.Extract(context.Background(), Grid{{"Nome", "Nota"}, {"Ana", "7"}})
		assert.ErrorIs(t, err, ErrHeaderNotFound)
	})

	t.Run("sheet too narrow", func(t *testing.T) {
		g := Grid{{"Feedback", "Sala", "Nº", "Nome", "Pre-Class", "Presença"}, {"", "7A", "1", "Ana", "", "P"}}
		_, err := ex.Extract(context.Background(), g)
		assert.ErrorIs(t, err, ErrLayoutMismatch)
		assert.True(t, IsLayoutError(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ex.Extract(ctx, buildGrid(classFixture()))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewExtractor_InvalidLayout(t *testing.T) {
	layout := DefaultLayout()
	layout.BlockWidth = 0
	_, err := NewExtractor(layout, nil)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestClassify_Thresholds(t *testing.T) {
	s := domain.StudentSummary{
		PresenceScore: null.Float64From(0.6),
		HomeworkScore: null.Float64From(0.4),
	}

	tests := []struct {
		name       string
		thresholds domain.Thresholds
		want       domain.RiskCategory
	}{
		{"both below", domain.Thresholds{Presence: null.Float64From(0.7), Homework: null.Float64From(0.5)}, domain.RiskCritical},
		{"only homework below", domain.Thresholds{Presence: null.Float64From(0.6), Homework: null.Float64From(0.5)}, domain.RiskTourist},
		{"only presence below", domain.Thresholds{Presence: null.Float64From(0.7), Homework: null.Float64From(0.4)}, domain.RiskSelfTaught},
		{"both at threshold", domain.Thresholds{Presence: null.Float64From(0.6), Homework: null.Float64From(0.4)}, domain.RiskIdeal},
		{"no thresholds", domain.Thresholds{}, domain.RiskIdeal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(s, tt.thresholds))
		})
	}
}

func TestProcess(t *testing.T) {
	ex, err := NewExtractor(DefaultLayout(), nil)
	require.NoError(t, err)

	data := csvBytes(t, buildGrid(classFixture()), ';')
	ds, err := ex.Process(context.Background(), "turma.csv", bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "turma.csv", ds.FileName)
	assert.Equal(t, domain.FormatCSV, ds.Format)
	assert.Len(t, ds.Students, 5)

	_, err = ex.Process(context.Background(), "empty.csv", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEmptyFile)
}
