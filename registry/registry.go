package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"nodegraph/geometry"
	"nodegraph/graph"
)

var (
	ErrTypeExists      = errors.New("type already registered")
	ErrUnknownNodeType = graph.ErrUnknownNodeType
	ErrUnknownPortType = errors.New("unknown port type")
	ErrInvalidType     = errors.New("invalid type definition")
)

// Registry maps type names to prototypes. It implements graph.NodeFactory.
type Registry struct {
	nodeTypes map[string]NodeType
	portTypes map[string]PortType
}

var _ graph.NodeFactory = (*Registry)(nil)

// New returns a registry holding the built-in types.
func New() *Registry {
	r := &Registry{
		nodeTypes: make(map[string]NodeType),
		portTypes: make(map[string]PortType),
	}
	builtinPorts := []PortType{
		{Name: graph.AnyType, Color: [4]uint8{180, 180, 180, 255}, Outline: [4]uint8{40, 40, 40, 255}},
	}
	for _, pt := range builtinPorts {
		_ = r.RegisterPortType(pt, false)
	}
	builtinNodes := []NodeType{
		{
			Name:    graph.TypeDot,
			Inputs:  []PortSpec{{Name: graph.DotInput, Datatype: graph.AnyType}},
			Outputs: []PortSpec{{Name: graph.DotOutput, Datatype: graph.AnyType}},
		},
		{Name: graph.TypeGroup, Group: true},
		{Name: graph.TypeGroupInput},
		{Name: graph.TypeGroupOutput},
	}
	for _, nt := range builtinNodes {
		_ = r.RegisterNodeType(nt, false)
	}
	return r
}

// RegisterNodeType adds t. Registering a name twice fails unless existsOK,
// in which case the new prototype replaces the old one.
func (r *Registry) RegisterNodeType(t NodeType, existsOK bool) error {
	if t.Name == "" {
		return fmt.Errorf("register node type: %w: empty name", ErrInvalidType)
	}
	if strings.Contains(t.Name, "/") {
		return fmt.Errorf("register node type %q: %w: name may not contain '/'", t.Name, ErrInvalidType)
	}
	if err := checkUnique(t); err != nil {
		return fmt.Errorf("register node type %q: %w", t.TypeName(), err)
	}
	key := t.TypeName()
	if _, ok := r.nodeTypes[key]; ok && !existsOK {
		return fmt.Errorf("register node type %q: %w", key, ErrTypeExists)
	}
	r.nodeTypes[key] = t.clone()
	return nil
}

func checkUnique(t NodeType) error {
	seen := map[string]bool{}
	for _, p := range t.Inputs {
		if seen[p.Name] {
			return fmt.Errorf("input %q: %w", p.Name, graph.ErrDuplicatePort)
		}
		seen[p.Name] = true
	}
	seen = map[string]bool{}
	for _, p := range t.Outputs {
		if seen[p.Name] {
			return fmt.Errorf("output %q: %w", p.Name, graph.ErrDuplicatePort)
		}
		seen[p.Name] = true
	}
	seen = map[string]bool{}
	for _, p := range t.Parameters {
		if seen[p.Name] {
			return fmt.Errorf("parameter %q: %w", p.Name, graph.ErrDuplicateParameter)
		}
		seen[p.Name] = true
	}
	return nil
}

// RegisterPortType adds a port datatype.
func (r *Registry) RegisterPortType(t PortType, existsOK bool) error {
	if t.Name == "" {
		return fmt.Errorf("register port type: %w: empty name", ErrInvalidType)
	}
	if _, ok := r.portTypes[t.Name]; ok && !existsOK {
		return fmt.Errorf("register port type %q: %w", t.Name, ErrTypeExists)
	}
	r.portTypes[t.Name] = t
	return nil
}

// NodeType returns a copy of the prototype registered under typeName.
func (r *Registry) NodeType(typeName string) (NodeType, error) {
	t, ok := r.nodeTypes[typeName]
	if !ok {
		return NodeType{}, fmt.Errorf("%w: %q", ErrUnknownNodeType, typeName)
	}
	return t.clone(), nil
}

func (r *Registry) HasNodeType(typeName string) bool {
	_, ok := r.nodeTypes[typeName]
	return ok
}

// PortType returns the port type registered under name.
func (r *Registry) PortType(name string) (PortType, error) {
	t, ok := r.portTypes[name]
	if !ok {
		return PortType{}, fmt.Errorf("%w: %q", ErrUnknownPortType, name)
	}
	return t, nil
}

// PortTypes returns every port type sorted by name.
func (r *Registry) PortTypes() []PortType {
	out := make([]PortType, 0, len(r.portTypes))
	for _, t := range r.portTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NodeTypes returns every node type sorted by type name.
func (r *Registry) NodeTypes() []NodeType {
	out := make([]NodeType, 0, len(r.nodeTypes))
	for _, t := range r.nodeTypes {
		out = append(out, t.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeName() < out[j].TypeName() })
	return out
}

// Categories returns the distinct non-empty categories, sorted.
func (r *Registry) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range r.nodeTypes {
		if t.Category != "" && !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Search returns the types whose name contains query, ignoring case.
// An empty query matches everything.
func (r *Registry) Search(query string) []NodeType {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []NodeType
	for _, t := range r.NodeTypes() {
		if strings.Contains(strings.ToLower(t.TypeName()), q) {
			out = append(out, t)
		}
	}
	return out
}

// NewNode stamps a node out of the prototype for typeName.
func (r *Registry) NewNode(typeName string) (*graph.Node, error) {
	t, ok := r.nodeTypes[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, typeName)
	}

	var n *graph.Node
	switch {
	case typeName == graph.TypeDot:
		return graph.NewDot(geometry.Point{}), nil
	case t.Group:
		n = graph.NewGroup(typeName, t.Name)
	default:
		n = graph.NewNode(typeName, t.Name)
	}

	for _, spec := range t.Inputs {
		if err := r.addPort(n, graph.Input, spec); err != nil {
			return nil, err
		}
	}
	for _, spec := range t.Outputs {
		if err := r.addPort(n, graph.Output, spec); err != nil {
			return nil, err
		}
	}
	for _, pp := range t.Parameters {
		p := graph.NewParameter(pp.Name, pp.Datatype, pp.Default, pp.Metadata)
		if pp.Value != nil {
			p.SetValue(pp.Value)
		}
		if err := n.AddParameter(p); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (r *Registry) addPort(n *graph.Node, dir graph.Direction, spec PortSpec) error {
	datatype := spec.Datatype
	if datatype == "" {
		datatype = graph.AnyType
	}
	if _, ok := r.portTypes[datatype]; !ok {
		return fmt.Errorf("node type %q %s %q: %w: %q", n.Type(), dir, spec.Name, ErrUnknownPortType, datatype)
	}
	var (
		p   *graph.Port
		err error
	)
	if dir == graph.Input {
		p, err = n.AddInput(spec.Name, datatype)
	} else {
		p, err = n.AddOutput(spec.Name, datatype)
	}
	if err != nil {
		return err
	}
	if spec.MaxConnections > 0 {
		p.SetMaxConnections(spec.MaxConnections)
	}
	return nil
}
