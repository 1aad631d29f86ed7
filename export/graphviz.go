package export

import (
	"fmt"
	"strings"

	"nodegraph/graph"
)

// GraphvizExporter exports documents to DOT. Each node is a record whose
// top row holds the inputs and bottom row the outputs, so edges attach to
// the port they use. Groups become clusters.
type GraphvizExporter struct{}

func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export converts the document to DOT
func (e *GraphvizExporter) Export(doc graph.Document) (string, error) {
	if err := validate(doc); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=record, fontname=\"Helvetica\"];\n")
	e.writeScene(&sb, "", "    ", doc)
	sb.WriteString("}\n")
	return sb.String(), nil
}

func (e *GraphvizExporter) writeScene(sb *strings.Builder, prefix, indent string, doc graph.Document) {
	ids := exportIDs(prefix, doc)

	for _, id := range doc.NodeIDs() {
		rec := doc.Nodes[id]
		nodeID := ids[id]
		if graph.KindForType(rec.NodeType) == graph.KindDot {
			fmt.Fprintf(sb, "%s%s [shape=point, width=0.12];\n", indent, nodeID)
			continue
		}
		fmt.Fprintf(sb, "%s%s [label=\"%s\"];\n", indent, nodeID, e.recordLabel(rec))
		if rec.Scene != nil && len(rec.Scene.Nodes) > 0 {
			fmt.Fprintf(sb, "%ssubgraph cluster_%s {\n", indent, nodeID)
			fmt.Fprintf(sb, "%s    label=\"%s\";\n", indent, e.escapeLabel(label(rec)))
			e.writeScene(sb, nodeID, indent+"    ", *rec.Scene)
			fmt.Fprintf(sb, "%s}\n", indent)
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
		fmt.Fprintf(sb, "%s%s%s -> %s%s;\n", indent,
			from, e.portRef(doc.Nodes[c.OutputNode], graph.Output, c.OutputPort, ":s"),
			to, e.portRef(doc.Nodes[c.InputNode], graph.Input, c.InputPort, ":n"))
	}
}

// recordLabel builds {{<i0> a|<i1> b}|name|{<o0> out}}.
func (e *GraphvizExporter) recordLabel(rec graph.NodeRecord) string {
	rows := make([]string, 0, 3)
	if row := e.portRow("i", orderedPorts(rec.Inputs)); row != "" {
		rows = append(rows, row)
	}
	rows = append(rows, e.escapeRecord(label(rec)))
	if row := e.portRow("o", orderedPorts(rec.Outputs)); row != "" {
		rows = append(rows, row)
	}
	return "{" + strings.Join(rows, "|") + "}"
}

func (e *GraphvizExporter) portRow(tag string, names []string) string {
	if len(names) == 0 {
		return ""
	}
	fields := make([]string, len(names))
	for i, name := range names {
		fields[i] = fmt.Sprintf("<%s%d> %s", tag, i, e.escapeRecord(name))
	}
	return "{" + strings.Join(fields, "|") + "}"
}

// portRef is the :field suffix for a port, empty for dots and unknown
// ports so the edge attaches to the node.
func (e *GraphvizExporter) portRef(rec graph.NodeRecord, dir graph.Direction, name, compass string) string {
	if graph.KindForType(rec.NodeType) == graph.KindDot {
		return ""
	}
	tag, ports := "i", rec.Inputs
	if dir == graph.Output {
		tag, ports = "o", rec.Outputs
	}
	for i, n := range orderedPorts(ports) {
		if n == name {
			return fmt.Sprintf(":%s%d%s", tag, i, compass)
		}
	}
	return ""
}

// escapeLabel escapes quotes and backslashes
func (e *GraphvizExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return label
}

// escapeRecord also escapes the characters records treat as structure
func (e *GraphvizExporter) escapeRecord(label string) string {
	label = e.escapeLabel(label)
	for _, ch := range []string{"{", "}", "|", "<", ">"} {
		label = strings.ReplaceAll(label, ch, `\`+ch)
	}
	return label
}

func (e *GraphvizExporter) FileExtension() string {
	return ".dot"
}

func (e *GraphvizExporter) FormatName() string {
	return "Graphviz DOT"
}
