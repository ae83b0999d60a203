package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportDataset() Dataset {
	return Dataset{
		Headers: []string{"Week", "Module", "Topic"},
		Rows: []map[string]string{
			{"Week": "5", "Module": "DIT101", "Topic": "Normalisation, 3NF"},
			{"Week": "6", "Module": "DIT101"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	body, err := NewCSVExporter().Render(reportDataset(), "ignored")
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(body, utf8BOM))
	assert.Equal(t, "Week,Module,Topic\n5,DIT101,\"Normalisation, 3NF\"\n6,DIT101,\n", string(body[len(utf8BOM):]))
}

func TestForFormat(t *testing.T) {
	csvRenderer, ok := ForFormat(" CSV ")
	require.True(t, ok)
	assert.Equal(t, "csv", csvRenderer.Extension())

	pdfRenderer, ok := ForFormat("pdf")
	require.True(t, ok)
	assert.Equal(t, "application/pdf", pdfRenderer.ContentType())

	_, ok = ForFormat("xlsx")
	assert.False(t, ok)
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{}, "")
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{}, "")
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	body, err := exporter.Render(reportDataset(), "Lecture Reports")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
	assert.Equal(t, "application/pdf", exporter.ContentType())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
