package structure

import (
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func descriptors(paths ...string) []FileDescriptor {
	out := make([]FileDescriptor, len(paths))
	for i, p := range paths {
		out[i] = FileDescriptor{Path: p, FileType: "lua"}
	}
	return out
}

func collectPaths(t *testing.T, s Structure) []string {
	t.Helper()

	var paths []string
	err := s.Walk(func(node Node, _ int) error {
		paths = append(paths, string(node.Type())+":"+node.NodePath())
		return nil
	})
	require.NoError(t, err)

	sort.Strings(paths)
	return paths
}

func TestMerge_SingleServiceIntoEmptyStructure(t *testing.T) {
	merged, report := Merge(Structure{}, descriptors("ServerScriptService/PlayerService/init.lua"))

	require.Len(t, merged, 1)
	root, ok := merged["ServerScriptService"]
	require.True(t, ok)
	assert.Equal(t, "serverscriptservice", root.ID)
	assert.Equal(t, "ServerScriptService", root.Path)

	require.Len(t, root.Children, 1)
	service, ok := root.Children[0].(*Folder)
	require.True(t, ok, "PlayerService should be a folder")
	assert.Equal(t, "PlayerService", service.Name)
	assert.Equal(t, "ServerScriptService/PlayerService", service.Path)

	require.Len(t, service.Children, 1)
	file, ok := service.Children[0].(*File)
	require.True(t, ok, "init.lua should be a file")
	assert.Equal(t, "init.lua", file.Name)
	assert.Equal(t, "ServerScriptService/PlayerService/init.lua", file.Path)
	assert.Equal(t, "serverscriptservice-playerservice-init.lua", file.ID)

	assert.Equal(t, []string{"ServerScriptService/PlayerService/init.lua"}, report.Created)
	assert.Empty(t, report.Skipped)
}

func TestMerge_SharedPrefixProducesOneFolder(t *testing.T) {
	merged, report := Merge(Structure{}, descriptors("Foo/A.lua", "Foo/B.lua"))

	require.Len(t, merged, 1)
	foo := merged["Foo"]
	require.NotNil(t, foo)
	require.Len(t, foo.Children, 2)
	assert.Equal(t, "A.lua", foo.Children[0].NodeName())
	assert.Equal(t, "B.lua", foo.Children[1].NodeName())
	assert.Equal(t, NodeTypeFile, foo.Children[0].Type())
	assert.Equal(t, NodeTypeFile, foo.Children[1].Type())
	assert.Len(t, report.Created, 2)
}

func TestMerge_ExistingFileIsLeftUntouched(t *testing.T) {
	first, _ := Merge(Structure{}, descriptors("Foo/Bar/A.lua"))
	before, ok := first.Find("Foo/Bar/A.lua")
	require.True(t, ok)

	second, report := Merge(first, []FileDescriptor{{Path: "Foo/Bar/A.lua", FileType: "json"}})
	after, ok := second.Find("Foo/Bar/A.lua")
	require.True(t, ok)

	assert.Empty(t, cmp.Diff(before, after))
	assert.Empty(t, report.Created)
	assert.Equal(t, []string{"Foo/Bar/A.lua"}, report.Existing)
}

func TestMerge_NoDescriptorsReturnsEqualCopy(t *testing.T) {
	s := Default()

	merged, report := Merge(s, nil)

	assert.Empty(t, cmp.Diff(s, merged))
	assert.Empty(t, report.Created)
	assert.Empty(t, report.Skipped)

	merged["Extra"] = NewFolder("Extra", "Extra")
	_, leaked := s["Extra"]
	assert.False(t, leaked, "result must not share the input map")
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	s, _ := Merge(Default(), descriptors("ServerScriptService/Data/init.lua"))
	snapshot := s.Clone()

	Merge(s, descriptors(
		"ServerScriptService/Data/Components/Get().lua",
		"ServerScriptService/Data/init.lua",
		"NewRoot/x.lua",
	))

	assert.Empty(t, cmp.Diff(snapshot, s))
}

func TestMerge_Idempotent(t *testing.T) {
	input := descriptors(
		"ServerScriptService/Shop/init.lua",
		"ServerScriptService/Shop/Components/Get().lua",
		"ServerScriptService/Shop/Components/Others/Refund.lua",
		"StarterPlayer/StarterPlayerScripts/ShopController.lua",
	)

	once, _ := Merge(Default(), input)
	twice, report := Merge(once, input)

	assert.Empty(t, cmp.Diff(once, twice))
	assert.Empty(t, report.Created)
	assert.Len(t, report.Existing, len(input))
}

func TestMerge_FolderCreationIsOrderIndependent(t *testing.T) {
	forward, _ := Merge(Structure{}, descriptors("a/b/c", "a/b/d"))
	backward, _ := Merge(Structure{}, descriptors("a/b/d", "a/b/c"))

	assert.ElementsMatch(t, collectPaths(t, forward), collectPaths(t, backward))
	assert.Equal(t, []string{"file:a/b/c", "file:a/b/d", "folder:a", "folder:a/b"}, collectPaths(t, forward))
}

func TestMerge_PathsMatchAncestorNames(t *testing.T) {
	merged, _ := Merge(Default(), descriptors(
		"ServerScriptService/Inventory/init.lua",
		"ServerScriptService/Inventory/Components/Set().lua",
		"ReplicatedStorage/Knit/Util/Signal.lua",
		"Deep/a/b/c/d/e.lua",
	))

	for _, name := range merged.RootNames() {
		var check func(node Node, ancestors []string)
		check = func(node Node, ancestors []string) {
			chain := append(append([]string{}, ancestors...), node.NodeName())
			assert.Equal(t, strings.Join(chain, "/"), node.NodePath())
			if folder, ok := node.(*Folder); ok {
				for _, child := range folder.Children {
					check(child, chain)
				}
			}
		}
		check(merged[name], nil)
	}

	require.NoError(t, merged.CheckInvariants())
}

func TestMerge_MalformedPathsAreSkipped(t *testing.T) {
	merged, report := Merge(Structure{}, descriptors("", "a//b.lua", "/a.lua", "a/", "Good/ok.lua"))

	assert.Equal(t, []string{"Good/ok.lua"}, report.Created)
	require.Len(t, report.Skipped, 4)
	assert.True(t, report.Skipped[0].IsSkipReason(ErrEmptyPath))
	for _, skipped := range report.Skipped[1:] {
		assert.True(t, skipped.IsSkipReason(ErrEmptySegment), skipped.Path)
	}

	assert.Equal(t, []string{"Good"}, merged.RootNames())
}

func TestMerge_TypeConflicts(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		incoming string
	}{
		{
			name:     "file where folder is needed",
			existing: []string{"Foo/Bar"},
			incoming: "Foo/Bar/Baz.lua",
		},
		{
			name:     "folder where file is expected",
			existing: []string{"Foo/Bar/Baz.lua"},
			incoming: "Foo/Bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, _ := Merge(Structure{}, descriptors(tt.existing...))

			merged, report := Merge(base, descriptors(tt.incoming, "Foo/Other.lua"))

			require.Len(t, report.Skipped, 1)
			assert.True(t, report.Skipped[0].IsSkipReason(ErrTypeConflict))
			assert.Equal(t, []string{"Foo/Other.lua"}, report.Created)

			withoutOther, _ := Remove(merged, "Foo/Other.lua")
			assert.Empty(t, cmp.Diff(base, withoutOther), "conflicting descriptor must not change the tree")
		})
	}
}

func TestMerge_SingleSegmentCreatesRootFolderOnly(t *testing.T) {
	merged, report := Merge(Structure{}, descriptors("Workspace"))

	require.Contains(t, merged, "Workspace")
	assert.Empty(t, merged["Workspace"].Children)
	assert.Empty(t, report.Created)
	assert.Empty(t, report.Skipped)
}

func TestMerge_ConcurrentCallersShareInput(t *testing.T) {
	defer goleak.VerifyNone(t)

	shared, _ := Merge(Default(), descriptors("ServerScriptService/Base/init.lua"))
	snapshot := shared.Clone()

	var wg sync.WaitGroup
	results := make([]Structure, 8)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Merge(shared, descriptors("ServerScriptService/Base/Components/Get().lua"))
		}(i)
	}
	wg.Wait()

	assert.Empty(t, cmp.Diff(snapshot, shared))
	for _, result := range results[1:] {
		assert.Empty(t, cmp.Diff(results[0], result))
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"ServerScriptService", "serverscriptservice"},
		{"ServerScriptService/PlayerService/init.lua", "serverscriptservice-playerservice-init.lua"},
		{"Foo/Player Service/Get().lua", "foo-player-service-get().lua"},
		{"a \t// b", "a-b"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.path))
		})
	}
}
