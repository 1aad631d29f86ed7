package graph

import "sort"

// Document is the plain serialized form of a scene.
type Document struct {
	Nodes       map[string]NodeRecord `json:"nodes"`
	Connections []ConnectionRecord    `json:"connections"`
	Backdrops   []BackdropRecord      `json:"backdrops,omitempty"`
}

// NodeRecord is the serialized form of a node. Scene is only set on groups.
type NodeRecord struct {
	NodeType   string                     `json:"node_type"`
	Name       string                     `json:"name"`
	Position   [2]float64                 `json:"position"`
	UniqueID   string                     `json:"unique_id"`
	Inputs     map[string]PortRecord      `json:"inputs"`
	Outputs    map[string]PortRecord      `json:"outputs"`
	Parameters map[string]ParameterRecord `json:"parameters"`
	Scene      *Document                  `json:"scene,omitempty"`
}

type PortRecord struct {
	Datatype string `json:"datatype"`
	Name     string `json:"name"`
	Index    int    `json:"index,omitempty"`
}

type ParameterRecord struct {
	Name     string         `json:"name"`
	Datatype string         `json:"datatype"`
	Value    any            `json:"value"`
	Default  any            `json:"default"`
	Metadata map[string]any `json:"metadata"`
}

type ConnectionRecord struct {
	OutputNode string `json:"output_node"`
	OutputPort string `json:"output_port"`
	InputNode  string `json:"input_node"`
	InputPort  string `json:"input_port"`
}

type BackdropRecord struct {
	UniqueID string     `json:"unique_id"`
	Name     string     `json:"name"`
	Rect     [4]float64 `json:"rect"`
}

// NewDocument returns an empty document.
func NewDocument() Document {
	return Document{Nodes: map[string]NodeRecord{}, Connections: []ConnectionRecord{}}
}

// NodeIDs returns the node ids sorted.
func (d Document) NodeIDs() []string {
	ids := make([]string, 0, len(d.Nodes))
	for id := range d.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CountNodes counts nodes including those nested inside groups.
func (d Document) CountNodes() int {
	n := len(d.Nodes)
	for _, rec := range d.Nodes {
		if rec.Scene != nil {
			n += rec.Scene.CountNodes()
		}
	}
	return n
}

// CountConnections counts connections including nested ones.
func (d Document) CountConnections() int {
	n := len(d.Connections)
	for _, rec := range d.Nodes {
		if rec.Scene != nil {
			n += rec.Scene.CountConnections()
		}
	}
	return n
}

// Reidentify returns a copy of d with every node, including nested ones,
// given a fresh id. Connections are rewritten to match.
func Reidentify(d Document) Document {
	out := Document{
		Nodes:       make(map[string]NodeRecord, len(d.Nodes)),
		Connections: make([]ConnectionRecord, 0, len(d.Connections)),
		Backdrops:   make([]BackdropRecord, 0, len(d.Backdrops)),
	}
	ids := make(map[string]string, len(d.Nodes))
	for old, rec := range d.Nodes {
		id := NewID()
		ids[old] = id
		rec.UniqueID = id
		if rec.Scene != nil {
			sub := Reidentify(*rec.Scene)
			rec.Scene = &sub
		}
		out.Nodes[id] = rec
	}
	for _, c := range d.Connections {
		c.OutputNode = ids[c.OutputNode]
		c.InputNode = ids[c.InputNode]
		out.Connections = append(out.Connections, c)
	}
	for _, b := range d.Backdrops {
		b.UniqueID = NewID()
		out.Backdrops = append(out.Backdrops, b)
	}
	if len(out.Backdrops) == 0 {
		out.Backdrops = nil
	}
	return out
}
