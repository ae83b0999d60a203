package export

import "strings"

// Dataset defines tabular export content. Rows are keyed by header.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

func (d Dataset) record(row map[string]string) []string {
	out := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		out[i] = row[header]
	}
	return out
}

// Renderer turns a dataset into a downloadable document.
type Renderer interface {
	ContentType() string
	Extension() string
	Render(data Dataset, title string) ([]byte, error)
}

// ForFormat resolves a renderer by its file extension, ignoring case.
func ForFormat(format string) (Renderer, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return NewCSVExporter(), true
	case "pdf":
		return NewPDFExporter(), true
	default:
		return nil, false
	}
}
