// Package registry holds the node and port type prototypes new nodes are
// stamped from.
package registry

import (
	"maps"
	"strings"
)

// PortType describes a port datatype and how it is drawn.
type PortType struct {
	Name    string   `yaml:"name"`
	Color   [4]uint8 `yaml:"color"`
	Outline [4]uint8 `yaml:"outline"`
}

// PortSpec is one port of a node prototype. MaxConnections of zero keeps
// the direction's default.
type PortSpec struct {
	Name           string `yaml:"name"`
	Datatype       string `yaml:"datatype"`
	MaxConnections int    `yaml:"max_connections"`
}

// ParameterPrototype seeds a parameter. Value falls back to Default.
type ParameterPrototype struct {
	Name     string         `yaml:"name"`
	Datatype string         `yaml:"datatype"`
	Value    any            `yaml:"value"`
	Default  any            `yaml:"default"`
	Metadata map[string]any `yaml:"metadata"`
}

// NodeType is an immutable node prototype.
type NodeType struct {
	Name       string               `yaml:"name"`
	Category   string               `yaml:"category"`
	Inputs     []PortSpec           `yaml:"inputs"`
	Outputs    []PortSpec           `yaml:"outputs"`
	Parameters []ParameterPrototype `yaml:"parameters"`
	Icon       string               `yaml:"icon"`
	Group      bool                 `yaml:"group"`
}

// TypeName is the registry key, category/name or just name.
func (t NodeType) TypeName() string {
	if t.Category == "" {
		return t.Name
	}
	return t.Category + "/" + t.Name
}

// SplitTypeName splits at the last slash.
func SplitTypeName(typeName string) (category, name string) {
	i := strings.LastIndex(typeName, "/")
	if i < 0 {
		return "", typeName
	}
	return typeName[:i], typeName[i+1:]
}

func (t NodeType) clone() NodeType {
	c := t
	c.Inputs = append([]PortSpec(nil), t.Inputs...)
	c.Outputs = append([]PortSpec(nil), t.Outputs...)
	c.Parameters = make([]ParameterPrototype, len(t.Parameters))
	for i, p := range t.Parameters {
		p.Metadata = maps.Clone(p.Metadata)
		c.Parameters[i] = p
	}
	return c
}
