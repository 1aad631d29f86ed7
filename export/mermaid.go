package export

import (
	"fmt"
	"strings"

	"nodegraph/graph"
)

// MermaidExporter exports documents to a Mermaid flowchart. Edges are
// labelled output→input; groups become subgraphs.
type MermaidExporter struct{}

func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export converts the document to Mermaid syntax
func (e *MermaidExporter) Export(doc graph.Document) (string, error) {
	if err := validate(doc); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("flowchart TD\n")
	e.writeScene(&sb, "", "    ", doc)
	return sb.String(), nil
}

func (e *MermaidExporter) writeScene(sb *strings.Builder, prefix, indent string, doc graph.Document) {
	ids := exportIDs(prefix, doc)

	for _, id := range doc.NodeIDs() {
		rec := doc.Nodes[id]
		nodeID := ids[id]
		switch {
		case rec.Scene != nil:
			fmt.Fprintf(sb, "%ssubgraph %s [\"%s\"]\n", indent, nodeID, e.escapeLabel(label(rec)))
			e.writeScene(sb, nodeID, indent+"    ", *rec.Scene)
			fmt.Fprintf(sb, "%send\n", indent)
		case graph.KindForType(rec.NodeType) == graph.KindDot:
			fmt.Fprintf(sb, "%s%s(( ))\n", indent, nodeID)
		default:
			fmt.Fprintf(sb, "%s%s[\"%s\"]\n", indent, nodeID, e.escapeLabel(label(rec)))
		}
	}

	if len(doc.Connections) > 0 {
		sb.WriteString("\n")
	}
	for _, c := range doc.Connections {
		from, ok := ids[c.OutputNode]
		if !ok {
			continue
		}
		to, ok := ids[c.InputNode]
		if !ok {
			continue
		}
		fmt.Fprintf(sb, "%s%s -->|%s→%s| %s\n", indent, from,
			e.escapeLabel(c.OutputPort), e.escapeLabel(c.InputPort), to)
	}
}

// escapeLabel replaces characters Mermaid would parse
func (e *MermaidExporter) escapeLabel(label string) string {
	r := strings.NewReplacer(
		`"`, "#quot;",
		"|", "#124;",
		"<", "#lt;",
		">", "#gt;",
	)
	return r.Replace(label)
}

func (e *MermaidExporter) FileExtension() string {
	return ".mmd"
}

func (e *MermaidExporter) FormatName() string {
	return "Mermaid"
}
