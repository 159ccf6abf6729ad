package testrail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenDepthTaggedSections_WhenBuildingTree_ThenNestsByParentChain(t *testing.T) {
	// Given
	sections := []Section{
		{ID: 1, Name: "Root", Depth: 0},
		{ID: 2, Name: "Child A", ParentID: int64Ptr(1), Depth: 1},
		{ID: 3, Name: "Child B", ParentID: int64Ptr(1), Depth: 1},
		{ID: 4, Name: "Grandchild", ParentID: int64Ptr(2), Depth: 2},
	}

	// When
	tree, err := BuildSectionTree(sections)

	// Then
	require.NoError(t, err)
	require.Len(t, tree, 1)

	root := tree[1]
	require.NotNil(t, root)
	require.Len(t, root.Children, 2)
	assert.Empty(t, root.Children[3].Children)

	childA := root.Children[2]
	require.NotNil(t, childA)
	require.Len(t, childA.Children, 1)
	assert.Equal(t, "Grandchild", childA.Children[4].Name)
}

func Test_GivenNoSections_WhenBuildingTree_ThenTreeIsEmpty(t *testing.T) {
	tree, err := BuildSectionTree(nil)

	require.NoError(t, err)
	assert.Empty(t, tree)
}

func Test_GivenRootWithManyChildren_WhenBuildingTree_ThenRootAppearsOnce(t *testing.T) {
	// Given
	sections := []Section{
		{ID: 1, Name: "Root", Depth: 0},
		{ID: 2, Name: "A", ParentID: int64Ptr(1), Depth: 1},
		{ID: 3, Name: "B", ParentID: int64Ptr(1), Depth: 1},
		{ID: 4, Name: "C", ParentID: int64Ptr(1), Depth: 1},
		{ID: 5, Name: "Other Root", Depth: 0},
	}

	// When
	tree, err := BuildSectionTree(sections)

	// Then
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.NotNil(t, tree[1])
	require.NotNil(t, tree[5])
	assert.Len(t, tree[1].Children, 3)
	assert.Empty(t, tree[5].Children)
}

func Test_GivenUnknownParentReference_WhenBuildingTree_ThenFails(t *testing.T) {
	// Given
	sections := []Section{
		{ID: 1, Name: "Root", Depth: 0},
		{ID: 2, Name: "Orphan", ParentID: int64Ptr(99), Depth: 1},
	}

	// When
	tree, err := BuildSectionTree(sections)

	// Then
	require.Error(t, err)
	assert.Nil(t, tree)
	assert.Contains(t, err.Error(), "unknown parent")
}

func int64Ptr(value int64) *int64 {
	return &value
}
