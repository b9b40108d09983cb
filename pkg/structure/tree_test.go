package structure

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()

	assert.Equal(t, []string{
		"ReplicatedStorage",
		"ServerScriptService",
		"ServerStorage",
		"StarterGui",
		"StarterPack",
		"StarterPlayer",
		"Workspace",
	}, s.RootNames())

	knit, ok := s.Find("ReplicatedStorage/Knit")
	require.True(t, ok)
	assert.Equal(t, NodeTypeFolder, knit.Type())

	player := s[StarterPlayer]
	require.Len(t, player.Children, 2)
	assert.Equal(t, "StarterPlayerScripts", player.Children[0].NodeName())
	assert.Equal(t, "StarterCharacterScripts", player.Children[1].NodeName())
	assert.Equal(t, "starterplayer-startercharacterscripts", player.Children[1].(*Folder).ID)

	require.NoError(t, s.CheckInvariants())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s, _ := Merge(Default(), descriptors("ServerScriptService/Shop/init.lua"))

	data, err := s.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(s, decoded))
}

func TestEncode_WireShape(t *testing.T) {
	s, _ := Merge(Structure{}, descriptors("Foo/a.lua"))

	data, err := s.Encode()
	require.NoError(t, err)

	var wire map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	foo := wire["Foo"]
	assert.Equal(t, "folder", foo["type"])
	assert.Equal(t, "foo", foo["id"])

	children, ok := foo["children"].([]any)
	require.True(t, ok)
	require.Len(t, children, 1)

	file := children[0].(map[string]any)
	assert.Equal(t, "file", file["type"])
	assert.Equal(t, "Foo/a.lua", file["path"])
	assert.NotContains(t, file, "children")
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		roots   int
		wantErr error
	}{
		{name: "empty input", input: "", roots: 0},
		{name: "json null", input: "null", roots: 0},
		{name: "empty object", input: "{}", roots: 0},
		{name: "folder without children key", input: `{"A":{"id":"a","name":"A","type":"folder","path":"A"}}`, roots: 1},
		{name: "root file", input: `{"A":{"id":"a","name":"A","type":"file","path":"A"}}`, wantErr: ErrRootNotFolder},
		{name: "unknown type", input: `{"A":{"id":"a","name":"A","type":"link","path":"A"}}`, wantErr: ErrInvalidNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode([]byte(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, s, tt.roots)
		})
	}
}

func TestRemove(t *testing.T) {
	s, _ := Merge(Structure{}, descriptors("Foo/Bar/a.lua", "Foo/Bar/b.lua", "Baz/c.lua"))

	removed, ok := Remove(s, "Foo/Bar/a.lua")
	require.True(t, ok)
	_, found := removed.Find("Foo/Bar/a.lua")
	assert.False(t, found)
	_, found = removed.Find("Foo/Bar/b.lua")
	assert.True(t, found)

	_, stillInOriginal := s.Find("Foo/Bar/a.lua")
	assert.True(t, stillInOriginal)

	removed, ok = Remove(s, "Baz")
	require.True(t, ok)
	assert.Equal(t, []string{"Foo"}, removed.RootNames())

	_, ok = Remove(s, "Foo/missing.lua")
	assert.False(t, ok)

	_, ok = Remove(s, "Foo/Bar/a.lua/x")
	assert.False(t, ok)
}

func TestWalk_Depths(t *testing.T) {
	s, _ := Merge(Structure{}, descriptors("A/b/c.lua"))

	var visited []string
	var depths []int
	err := s.Walk(func(node Node, depth int) error {
		visited = append(visited, node.NodePath())
		depths = append(depths, depth)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "A/b", "A/b/c.lua"}, visited)
	assert.Equal(t, []int{0, 1, 2}, depths)
}

func TestValidate(t *testing.T) {
	valid := `{
		"Foo": {"id": "stale", "name": "Foo", "type": "folder", "path": "Foo", "children": [
			{"id": "x", "name": "a.lua", "type": "file", "path": "Foo/a.lua"}
		]}
	}`

	s, err := Validate([]byte(valid))
	require.NoError(t, err)
	assert.Equal(t, "foo", s["Foo"].ID)
	file, ok := s.Find("Foo/a.lua")
	require.True(t, ok)
	assert.Equal(t, "foo-a.lua", file.(*File).ID)

	invalid := map[string]string{
		"not an object":     `[]`,
		"missing path":      `{"Foo": {"id": "foo", "name": "Foo", "type": "folder"}}`,
		"root is file":      `{"Foo": {"id": "foo", "name": "Foo", "type": "file", "path": "Foo"}}`,
		"file with kids":    `{"Foo": {"id": "foo", "name": "Foo", "type": "folder", "path": "Foo", "children": [{"id": "a", "name": "a", "type": "file", "path": "Foo/a", "children": []}]}}`,
		"wrong path":        `{"Foo": {"id": "foo", "name": "Foo", "type": "folder", "path": "Foo", "children": [{"id": "a", "name": "a", "type": "file", "path": "Bar/a"}]}}`,
		"duplicate sibling": `{"Foo": {"id": "foo", "name": "Foo", "type": "folder", "path": "Foo", "children": [{"id": "a", "name": "a", "type": "file", "path": "Foo/a"}, {"id": "a", "name": "a", "type": "folder", "path": "Foo/a"}]}}`,
		"key mismatch":      `{"Bar": {"id": "foo", "name": "Foo", "type": "folder", "path": "Foo"}}`,
		"slash in name":     `{"Foo": {"id": "foo", "name": "Foo", "type": "folder", "path": "Foo", "children": [{"id": "a", "name": "a/b", "type": "file", "path": "Foo/a/b"}]}}`,
		"malformed json":    `{"Foo":`,
	}

	for name, doc := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := Validate([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidNode)
		})
	}
}
