package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	sheet := Sheet{
		Title:   "Attendance Report",
		Columns: []string{"Date", "Group", "Attended"},
		Rows: [][]string{
			{"2026-09-07", "U12 Football", "14"},
			{"2026-09-08", "U12 Football"},
		},
	}

	data, err := NewCSVExporter().Render(sheet)
	require.NoError(t, err)
	assert.Equal(t, "Date,Group,Attended\n2026-09-07,U12 Football,14\n2026-09-08,U12 Football,\n", string(data))
}

func TestCSVExporterRequiresColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Sheet{Title: "Attendance Report"})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	sheet := Sheet{
		Title:   "Attendance Report",
		Columns: []string{"Date", "Group", "Attended"},
		Rows:    [][]string{{"2026-09-07", "U12 Football", "14"}},
	}

	data, err := NewPDFExporter().Render(sheet)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}
