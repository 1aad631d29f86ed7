// Package export renders scene documents in text formats other tools read.
package export

import (
	"fmt"
	"sort"

	"nodegraph/graph"
)

// Format represents an export format
type Format string

const (
	// FormatJSON is the native document format
	FormatJSON Format = "json"
	// FormatDOT exports to Graphviz DOT with record nodes
	FormatDOT Format = "dot"
	// FormatMermaid exports to a Mermaid flowchart
	FormatMermaid Format = "mermaid"
)

// Exporter converts a document to one format.
type Exporter interface {
	Export(doc graph.Document) (string, error)
	// FileExtension returns the recommended file extension for this format
	FileExtension() string
	// FormatName returns a human-readable name for this format
	FormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatDOT:
		return NewGraphvizExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "dot", "graphviz", "gv":
		return FormatDOT, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// AvailableFormats returns a list of all available export formats
func AvailableFormats() []Format {
	return []Format{FormatJSON, FormatDOT, FormatMermaid}
}

// FormatDescriptions returns human-readable descriptions of all formats
func FormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatJSON:    "Native JSON document",
		FormatDOT:     "Graphviz DOT with one record field per port",
		FormatMermaid: "Mermaid flowchart (for Markdown)",
	}
}

// exportIDs maps document node ids to short identifiers, N0, N1 ... in
// id order. Nodes inside a group get the group's identifier as prefix.
func exportIDs(prefix string, doc graph.Document) map[string]string {
	ids := make(map[string]string, len(doc.Nodes))
	for i, id := range doc.NodeIDs() {
		if prefix == "" {
			ids[id] = fmt.Sprintf("N%d", i)
		} else {
			ids[id] = fmt.Sprintf("%s_%d", prefix, i)
		}
	}
	return ids
}

// orderedPorts returns port names in layout order.
func orderedPorts(m map[string]graph.PortRecord) []string {
	ports := make([]graph.PortRecord, 0, len(m))
	for name, p := range m {
		if p.Name == "" {
			p.Name = name
		}
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool {
		if ports[i].Index != ports[j].Index {
			return ports[i].Index < ports[j].Index
		}
		return ports[i].Name < ports[j].Name
	})
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.Name
	}
	return names
}

func label(rec graph.NodeRecord) string {
	if rec.Name != "" {
		return rec.Name
	}
	return rec.NodeType
}

func validate(doc graph.Document) error {
	if doc.Nodes == nil {
		return fmt.Errorf("document has no node table")
	}
	if len(doc.Nodes) == 0 {
		return fmt.Errorf("document has no nodes")
	}
	return nil
}
