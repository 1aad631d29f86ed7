package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodegraph/graph"
)

func TestBuiltins(t *testing.T) {
	r := New()
	for _, name := range []string{"dot", "group", "group_input", "group_output"} {
		assert.True(t, r.HasNodeType(name), name)
	}
	_, err := r.PortType("*")
	assert.NoError(t, err)

	dot, err := r.NewNode("dot")
	require.NoError(t, err)
	assert.Equal(t, graph.KindDot, dot.Kind())

	grp, err := r.NewNode("group")
	require.NoError(t, err)
	assert.True(t, grp.IsGroup())
}

func TestRegisterExistsOK(t *testing.T) {
	r := New()
	nt := NodeType{Name: "add", Category: "math"}

	require.NoError(t, r.RegisterNodeType(nt, false))
	assert.ErrorIs(t, r.RegisterNodeType(nt, false), ErrTypeExists)

	nt.Icon = "plus"
	require.NoError(t, r.RegisterNodeType(nt, true))
	got, err := r.NodeType("math/add")
	require.NoError(t, err)
	assert.Equal(t, "plus", got.Icon)

	assert.ErrorIs(t, r.RegisterPortType(PortType{Name: "*"}, false), ErrTypeExists)
}

func TestRegisterRejectsDuplicatePorts(t *testing.T) {
	r := New()
	err := r.RegisterNodeType(NodeType{
		Name:   "bad",
		Inputs: []PortSpec{{Name: "a"}, {Name: "a"}},
	}, false)
	assert.ErrorIs(t, err, graph.ErrDuplicatePort)
	assert.False(t, r.HasNodeType("bad"))
}

func TestNodeTypeReturnsCopy(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterNodeType(NodeType{
		Name:   "n",
		Inputs: []PortSpec{{Name: "a"}},
	}, false))

	got, err := r.NodeType("n")
	require.NoError(t, err)
	got.Inputs[0].Name = "mutated"

	again, err := r.NodeType("n")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Inputs[0].Name)
}

func TestNewNodeFromPrototype(t *testing.T) {
	r := Standard()

	n, err := r.NewNode("math/multiply")
	require.NoError(t, err)
	assert.Equal(t, "math/multiply", n.Type())
	assert.Equal(t, "multiply", n.Name())
	assert.True(t, n.HasInput("a"))
	assert.True(t, n.HasInput("b"))
	assert.Equal(t, "float", n.Output("product").Datatype())
	require.NotNil(t, n.Parameter("scale"))
	assert.Equal(t, 1.0, n.Parameter("scale").Value())
	assert.Equal(t, 10.0, n.Parameter("scale").Metadata()["max"])

	merge, err := r.NewNode("util/merge")
	require.NoError(t, err)
	assert.Equal(t, 8, merge.Input("items").MaxConnections())

	sub, err := r.NewNode("util/subnet")
	require.NoError(t, err)
	assert.True(t, sub.IsGroup())

	other, err := r.NewNode("math/multiply")
	require.NoError(t, err)
	assert.NotEqual(t, n.ID(), other.ID())
}

func TestNewNodeErrors(t *testing.T) {
	r := New()
	_, err := r.NewNode("nope")
	assert.ErrorIs(t, err, ErrUnknownNodeType)
	assert.ErrorIs(t, err, graph.ErrUnknownNodeType)

	require.NoError(t, r.RegisterNodeType(NodeType{
		Name:   "typed",
		Inputs: []PortSpec{{Name: "in", Datatype: "mystery"}},
	}, false))
	_, err = r.NewNode("typed")
	assert.ErrorIs(t, err, ErrUnknownPortType)
}

func TestSearchAndCategories(t *testing.T) {
	r := Standard()

	names := func(types []NodeType) []string {
		var out []string
		for _, nt := range types {
			out = append(out, nt.TypeName())
		}
		return out
	}

	assert.Equal(t, []string{"math/add", "math/constant", "math/multiply"}, names(r.Search("MATH/")))
	assert.Equal(t, []string{"io/print"}, names(r.Search("print")))
	assert.Equal(t, []string{"io", "math", "util"}, r.Categories())
	assert.Len(t, r.Search(""), len(r.NodeTypes()))
}

func TestSplitTypeName(t *testing.T) {
	tests := []struct {
		in, category, name string
	}{
		{"math/add", "math", "add"},
		{"dot", "", "dot"},
		{"a/b/c", "a/b", "c"},
	}
	for _, tt := range tests {
		c, n := SplitTypeName(tt.in)
		assert.Equal(t, tt.category, c, tt.in)
		assert.Equal(t, tt.name, n, tt.in)
	}
}

func TestLoadYAML(t *testing.T) {
	r := New()
	src := `
port_types:
  - name: vec3
    color: [1, 2, 3, 255]
node_types:
  - name: normalize
    category: vector
    inputs: [{name: v, datatype: vec3}]
    outputs: [{name: out, datatype: vec3}]
`
	require.NoError(t, r.LoadYAML(strings.NewReader(src)))
	pt, err := r.PortType("vec3")
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{1, 2, 3, 255}, pt.Color)

	n, err := r.NewNode("vector/normalize")
	require.NoError(t, err)
	assert.Equal(t, "vec3", n.Input("v").Datatype())

	assert.ErrorIs(t, r.LoadYAML(strings.NewReader(src)), ErrTypeExists)
	assert.NoError(t, r.LoadYAML(strings.NewReader("replace: true\n"+src)))

	err = r.LoadYAML(strings.NewReader("node_types:\n  - nme: typo\n"))
	assert.Error(t, err)
}
