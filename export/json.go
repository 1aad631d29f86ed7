package export

import (
	"encoding/json"

	"nodegraph/graph"
)

// JSONExporter writes the document as indented JSON.
type JSONExporter struct{}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a document to JSON. An empty document is allowed.
func (e *JSONExporter) Export(doc graph.Document) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

func (e *JSONExporter) FileExtension() string {
	return ".json"
}

func (e *JSONExporter) FormatName() string {
	return "JSON"
}
