package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodegraph/geometry"
)

func TestGroupBoundaryNodes(t *testing.T) {
	g := NewGroup("", "grp")
	require.True(t, g.IsGroup())
	require.NotNil(t, g.SubScene())
	assert.Same(t, g, g.SubScene().Owner())

	_, err := g.AddInput("a", "float")
	require.NoError(t, err)
	_, err = g.AddInput("b", "float")
	require.NoError(t, err)
	_, err = g.AddOutput("a", "float")
	require.NoError(t, err)

	inA := g.BoundaryInput("a")
	inB := g.BoundaryInput("b")
	outA := g.BoundaryOutput("a")
	require.NotNil(t, inA)
	require.NotNil(t, inB)
	require.NotNil(t, outA)

	assert.Equal(t, KindGroupInput, inA.Kind())
	assert.True(t, inA.HasOutput("a"), "group input is fed from an interior output")
	assert.True(t, outA.HasInput("a"))
	assert.Equal(t, 3, g.SubScene().Len())

	assert.Less(t, inA.Position().Y, 0.0)
	assert.Greater(t, outA.Position().Y, 0.0)
	assert.Greater(t, inB.Position().X, inA.Position().X)

	_, err = g.AddInput("a", "float")
	assert.ErrorIs(t, err, ErrDuplicatePort)
	assert.Equal(t, 3, g.SubScene().Len(), "exactly one boundary node per port")
}

func TestUniqueNames(t *testing.T) {
	g := NewGroup("", "grp")
	assert.Equal(t, "in", g.UniqueInputName("in"))
	_, _ = g.AddInput("in", "*")
	assert.Equal(t, "in_001", g.UniqueInputName("in"))
	_, _ = g.AddInput("in_001", "*")
	assert.Equal(t, "in_002", g.UniqueInputName("in"))
	assert.Equal(t, "in", g.UniqueOutputName("in"))
}

func TestGroupRecordRoundTrip(t *testing.T) {
	g := NewGroup("", "grp")
	_, err := g.AddInput("x", "float")
	require.NoError(t, err)
	_, err = g.AddOutput("y", "float")
	require.NoError(t, err)

	inner := newTestNode(t, "inner", []string{"in"}, []string{"out"})
	require.NoError(t, g.SubScene().AddNode(inner))
	c, err := NewConnection(g.BoundaryInput("x").Output("x"), inner.Input("in"))
	require.NoError(t, err)
	require.NoError(t, g.SubScene().AddConnection(c))

	rec := g.Record()
	require.NotNil(t, rec.Scene)
	assert.Len(t, rec.Scene.Nodes, 3)
	assert.Len(t, rec.Scene.Connections, 1)

	s := NewScene()
	doc := NewDocument()
	doc.Nodes[rec.UniqueID] = rec
	require.NoError(t, s.Load(doc, nil))

	loaded := s.Node(g.ID())
	require.NotNil(t, loaded)
	assert.True(t, loaded.IsGroup())
	assert.Equal(t, 3, loaded.SubScene().Len(), "boundary nodes are not duplicated on load")
	assert.Equal(t, rec, loaded.Record())
}

func TestGroupClone(t *testing.T) {
	g := NewGroup("", "grp")
	_, err := g.AddInput("x", "float")
	require.NoError(t, err)

	c, err := g.Clone()
	require.NoError(t, err)
	require.True(t, c.IsGroup())
	assert.NotEqual(t, g.ID(), c.ID())

	orig := g.BoundaryInput("x")
	copied := c.BoundaryInput("x")
	require.NotNil(t, copied)
	assert.NotEqual(t, orig.ID(), copied.ID())
	assert.Equal(t, 1, c.SubScene().Len())
}

func TestRecordWithSceneBecomesGroup(t *testing.T) {
	dot := NewDot(geometry.Pt(1, 2))
	require.NoError(t, dot.SetID("d"))
	sub := NewDocument()
	sub.Nodes["d"] = dot.Record()

	n := NewNode("vendor/macro", "m")
	require.NoError(t, n.LoadRecord(NodeRecord{NodeType: "vendor/macro", Scene: &sub}, nil))
	require.True(t, n.IsGroup())
	d := n.SubScene().Node("d")
	require.NotNil(t, d)
	assert.Equal(t, KindDot, d.Kind())
}

func TestRemovePort(t *testing.T) {
	g := NewGroup("", "grp")
	_, err := g.AddInput("a", "float")
	require.NoError(t, err)
	_, err = g.AddInput("b", "float")
	require.NoError(t, err)
	require.Equal(t, 2, g.SubScene().Len())

	require.NoError(t, g.RemovePort(Input, "a"))
	assert.False(t, g.HasInput("a"))
	assert.Nil(t, g.BoundaryInput("a"))
	assert.Equal(t, 1, g.SubScene().Len())
	assert.Equal(t, 0, g.Input("b").Index())

	err = g.RemovePort(Input, "a")
	assert.ErrorIs(t, err, ErrPortNotFound)

	// a connected boundary keeps the port
	inner := NewNode("t", "inner")
	_, err = inner.AddInput("x", "float")
	require.NoError(t, err)
	require.NoError(t, g.SubScene().AddNode(inner))
	c, err := NewConnection(g.BoundaryInput("b").Output("b"), inner.Input("x"))
	require.NoError(t, err)
	require.NoError(t, g.SubScene().AddConnection(c))

	err = g.RemovePort(Input, "b")
	assert.ErrorIs(t, err, ErrNodeHasConnections)
	assert.True(t, g.HasInput("b"))
}
