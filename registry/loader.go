package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the layout of a YAML type file.
//
//	replace: false
//	port_types:
//	  - name: float
//	    color: [200, 200, 80, 255]
//	node_types:
//	  - name: add
//	    category: math
//	    inputs: [{name: a, datatype: float}, {name: b, datatype: float}]
//	    outputs: [{name: sum, datatype: float}]
//	    parameters:
//	      - {name: scale, datatype: float, default: 1.0}
type File struct {
	Replace   bool       `yaml:"replace"`
	PortTypes []PortType `yaml:"port_types"`
	NodeTypes []NodeType `yaml:"node_types"`
}

// LoadYAML registers every type in the document read from rd. Port types
// are registered before node types. With replace set, existing entries are
// overwritten.
func (r *Registry) LoadYAML(rd io.Reader) error {
	var f File
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode type file: %w", err)
	}
	for _, pt := range f.PortTypes {
		if err := r.RegisterPortType(pt, f.Replace); err != nil {
			return err
		}
	}
	for _, nt := range f.NodeTypes {
		if err := r.RegisterNodeType(nt, f.Replace); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile registers the types in the YAML file at path.
func (r *Registry) LoadFile(path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open type file: %w", err)
	}
	defer fh.Close()
	if err := r.LoadYAML(fh); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
