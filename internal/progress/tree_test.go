package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus-tracker/internal/model"
)

func uintPtr(v uint) *uint { return &v }

func TestDescendantsWalksWholeSubtree(t *testing.T) {
	// A(1) -> B(2), C(3); B -> D(4); E(5) unrelated.
	idx := NewChildIndex([]Edge{
		{ID: 1},
		{ID: 2, ParentID: uintPtr(1)},
		{ID: 3, ParentID: uintPtr(1)},
		{ID: 4, ParentID: uintPtr(2)},
		{ID: 5},
	})

	assert.ElementsMatch(t, []uint{2, 3, 4}, idx.Descendants(1))
	assert.Equal(t, []uint{4}, idx.Descendants(2))
	assert.Empty(t, idx.Descendants(5))
	assert.Empty(t, idx.Descendants(42))
}

func TestDescendantsSurvivesCycles(t *testing.T) {
	idx := NewChildIndex([]Edge{
		{ID: 1, ParentID: uintPtr(3)},
		{ID: 2, ParentID: uintPtr(1)},
		{ID: 3, ParentID: uintPtr(2)},
	})
	assert.ElementsMatch(t, []uint{2, 3}, idx.Descendants(1))
}

func TestBuildForestOrdering(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: 1, Title: "old root", CreatedAt: base},
		{ID: 2, Title: "new root", CreatedAt: base.Add(time.Hour)},
		{ID: 3, Title: "second child", ParentID: uintPtr(1), CreatedAt: base.Add(3 * time.Minute)},
		{ID: 4, Title: "first child", ParentID: uintPtr(1), CreatedAt: base.Add(time.Minute)},
		{ID: 5, Title: "grandchild", ParentID: uintPtr(4), CreatedAt: base.Add(2 * time.Hour)},
		{ID: 6, Title: "orphan", ParentID: uintPtr(99), CreatedAt: base.Add(-time.Hour)},
	}

	forest := BuildForest(tasks)
	require.Len(t, forest, 3)
	assert.Equal(t, "new root", forest[0].Title)
	assert.Equal(t, "old root", forest[1].Title)
	assert.Equal(t, "orphan", forest[2].Title)

	children := forest[1].Subtasks
	require.Len(t, children, 2)
	assert.Equal(t, "first child", children[0].Title)
	assert.Equal(t, "second child", children[1].Title)
	require.Len(t, children[0].Subtasks, 1)
	assert.Equal(t, "grandchild", children[0].Subtasks[0].Title)
	assert.NotNil(t, forest[0].Subtasks)
	assert.Empty(t, forest[0].Subtasks)
}
