package document

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodegraph/geometry"
	"nodegraph/graph"
	"nodegraph/registry"
	"nodegraph/validation"
)

func sampleDocument(t *testing.T) graph.Document {
	t.Helper()
	reg := registry.Standard()
	scene := graph.NewScene()
	c, err := reg.NewNode("math/constant")
	require.NoError(t, err)
	add, err := reg.NewNode("math/add")
	require.NoError(t, err)
	add.SetPosition(geometry.Pt(0, 100))
	require.NoError(t, scene.AddNode(c))
	require.NoError(t, scene.AddNode(add))
	conn, err := graph.NewConnection(c.Output("value"), add.Input("a"))
	require.NoError(t, err)
	require.NoError(t, scene.AddConnection(conn))
	c.Parameter("value").SetValue(2.5)
	return scene.Dump()
}

func TestSaveLoad(t *testing.T) {
	for _, name := range []string{"graph.json", "graph.sz", "GRAPH.SZ"} {
		t.Run(name, func(t *testing.T) {
			doc := sampleDocument(t)
			path := filepath.Join(t.TempDir(), name)

			require.NoError(t, Save(path, doc, true))
			_, err := os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err), "temporary file is renamed away")

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, doc.NodeIDs(), got.NodeIDs())
			assert.Equal(t, doc.Connections, got.Connections)
			assert.Equal(t, 2, got.CountNodes())

			for id, rec := range got.Nodes {
				assert.Equal(t, doc.Nodes[id].Position, rec.Position)
			}
		})
	}
}

func TestCompressedIsNotJSON(t *testing.T) {
	doc := sampleDocument(t)
	plain, err := Marshal("a.json", doc, false)
	require.NoError(t, err)
	packed, err := Marshal("a.sz", doc, false)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(plain, []byte("{")))
	assert.NotEqual(t, plain, packed)

	_, err = Unmarshal("a.sz", plain)
	assert.Error(t, err, "plain JSON is not a snappy block")
}

func TestReadNormalizes(t *testing.T) {
	doc, err := Read(strings.NewReader(`{"nodes": {"g": {"node_type": "group", "scene": {}}}}`))
	require.NoError(t, err)
	assert.NotNil(t, doc.Connections)
	require.NotNil(t, doc.Nodes["g"].Scene)
	assert.NotNil(t, doc.Nodes["g"].Scene.Nodes)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes": {"a": {"node_type": ""}}, "connections": []}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	problems := validation.Problems(err)
	require.Len(t, problems, 1)
	assert.Equal(t, "nodes.a.node_type", problems[0].Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestReadGarbage(t *testing.T) {
	_, err := Read(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestLoadKeepsUnknownTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign.json")
	content := `{"nodes": {"a": {"node_type": "foreign/thing", "name": "a", "unique_id": "a"}}, "connections": []}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "foreign/thing", doc.Nodes["a"].NodeType)
}
