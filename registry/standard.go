package registry

import (
	"bytes"
	_ "embed"
)

//go:embed standard.yaml
var standardTypes []byte

// Standard returns New plus the stock math, util and io node types.
func Standard() *Registry {
	r := New()
	if err := r.LoadYAML(bytes.NewReader(standardTypes)); err != nil {
		panic("registry: standard types: " + err.Error())
	}
	return r
}
