package validation

import "nodegraph/graph"

// The request types mirror the graph records with validation tags. Only
// the fields that carry rules are copied.

type nodeRecord struct {
	NodeType   string                     `json:"node_type" validate:"required"`
	Inputs     map[string]portRecord      `json:"inputs" validate:"dive,keys,required,endkeys"`
	Outputs    map[string]portRecord      `json:"outputs" validate:"dive,keys,required,endkeys"`
	Parameters map[string]parameterRecord `json:"parameters" validate:"dive,keys,required,endkeys"`
}

type portRecord struct {
	Name     string `json:"name" validate:"required"`
	Datatype string `json:"datatype" validate:"required"`
	Index    int    `json:"index" validate:"gte=0"`
}

type parameterRecord struct {
	Name string `json:"name" validate:"required"`
}

type connectionRecord struct {
	OutputNode string `json:"output_node" validate:"required"`
	OutputPort string `json:"output_port" validate:"required"`
	InputNode  string `json:"input_node" validate:"required"`
	InputPort  string `json:"input_port" validate:"required"`
}

type backdropRecord struct {
	UniqueID string `json:"unique_id" validate:"required"`
}

func toNode(rec graph.NodeRecord) nodeRecord {
	n := nodeRecord{
		NodeType:   rec.NodeType,
		Inputs:     toPorts(rec.Inputs),
		Outputs:    toPorts(rec.Outputs),
		Parameters: make(map[string]parameterRecord, len(rec.Parameters)),
	}
	for k, p := range rec.Parameters {
		n.Parameters[k] = parameterRecord{Name: p.Name}
	}
	return n
}

func toPorts(m map[string]graph.PortRecord) map[string]portRecord {
	out := make(map[string]portRecord, len(m))
	for k, p := range m {
		out[k] = portRecord{Name: p.Name, Datatype: p.Datatype, Index: p.Index}
	}
	return out
}

func toConnection(c graph.ConnectionRecord) connectionRecord {
	return connectionRecord{
		OutputNode: c.OutputNode,
		OutputPort: c.OutputPort,
		InputNode:  c.InputNode,
		InputPort:  c.InputPort,
	}
}
