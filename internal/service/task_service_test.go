package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus-tracker/internal/model"
)

// family creates A with children B and C, and D under B.
func family(t *testing.T, svc *TaskService) (a, b, c, d *model.Task) {
	t.Helper()
	ctx := context.Background()
	var err error
	a, err = svc.CreateTask(ctx, TaskInput{Title: "A"})
	require.NoError(t, err)
	b, err = svc.CreateTask(ctx, TaskInput{Title: "B", ParentID: &a.ID})
	require.NoError(t, err)
	c, err = svc.CreateTask(ctx, TaskInput{Title: "C", ParentID: &a.ID})
	require.NoError(t, err)
	d, err = svc.CreateTask(ctx, TaskInput{Title: "D", ParentID: &b.ID})
	require.NoError(t, err)
	return a, b, c, d
}

func completedFlags(t *testing.T, store *Store, tasks ...*model.Task) []bool {
	t.Helper()
	out := make([]bool, 0, len(tasks))
	for _, task := range tasks {
		fresh, err := store.tasks.FindByID(context.Background(), task.ID)
		require.NoError(t, err)
		out = append(out, fresh.IsCompleted)
	}
	return out
}

func TestCreateTaskValidation(t *testing.T) {
	svc := NewTaskService(newTestStore(t))
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, TaskInput{Title: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTask(ctx, TaskInput{Title: "x", DueDate: strPtr("30/11/2025")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	missing := uint(404)
	_, err = svc.CreateTask(ctx, TaskInput{Title: "orphan", ParentID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)

	task, err := svc.CreateTask(ctx, TaskInput{
		Title:             "  Gym  ",
		DueDate:           strPtr("2025-11-30"),
		RecurrencePattern: strPtr("weekly"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Gym", task.Title)
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.RecurrencePattern, "pattern is dropped for one-off tasks")
}

func TestToggleCompletesWholeSubtree(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	a, b, c, d := family(t, svc)

	completed, err := svc.ToggleCompletion(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, []bool{true, true, true, true}, completedFlags(t, store, a, b, c, d))

	// Uncompleting the parent leaves the children alone.
	completed, err = svc.ToggleCompletion(context.Background(), a.ID)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, []bool{false, true, true, true}, completedFlags(t, store, a, b, c, d))
}

func TestToggleChildLeavesParent(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	a, b, c, d := family(t, svc)

	_, err := svc.ToggleCompletion(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false, true}, completedFlags(t, store, a, b, c, d))
}

func TestToggleUnknownTaskFails(t *testing.T) {
	svc := NewTaskService(newTestStore(t))
	_, err := svc.ToggleCompletion(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteSubtree(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	a, b, c, d := family(t, svc)

	assert.NoError(t, svc.CompleteSubtree(context.Background(), 12345))
	assert.Equal(t, []bool{false, false, false, false}, completedFlags(t, store, a, b, c, d))

	require.NoError(t, svc.CompleteSubtree(context.Background(), b.ID))
	assert.Equal(t, []bool{false, true, false, true}, completedFlags(t, store, a, b, c, d))
}

func TestListTreeNestsSubtasks(t *testing.T) {
	svc := NewTaskService(newTestStore(t))
	ctx := context.Background()
	a, _, _, _ := family(t, svc)
	solo, err := svc.CreateTask(ctx, TaskInput{Title: "solo"})
	require.NoError(t, err)

	tree, err := svc.ListTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, solo.ID, tree[0].ID)
	assert.Equal(t, a.ID, tree[1].ID)

	require.Len(t, tree[1].Subtasks, 2)
	assert.Equal(t, "B", tree[1].Subtasks[0].Title)
	assert.Equal(t, "C", tree[1].Subtasks[1].Title)
	require.Len(t, tree[1].Subtasks[0].Subtasks, 1)
	assert.Equal(t, "D", tree[1].Subtasks[0].Subtasks[0].Title)
}

func TestGetTaskReturnsSubtree(t *testing.T) {
	svc := NewTaskService(newTestStore(t))
	ctx := context.Background()
	_, b, _, d := family(t, svc)

	got, err := svc.GetTask(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)
	require.Len(t, got.Subtasks, 1)
	assert.Equal(t, d.ID, got.Subtasks[0].ID)

	children, err := svc.ListChildren(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "D", children[0].Title)

	_, err = svc.GetTask(ctx, 777)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTaskPatch(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	ctx := context.Background()
	task, err := svc.CreateTask(ctx, TaskInput{Title: "draft", Description: strPtr("old")})
	require.NoError(t, err)

	assert.NoError(t, svc.UpdateTask(ctx, 999, TaskPatch{}), "empty patch never touches the store")

	require.NoError(t, svc.UpdateTask(ctx, task.ID, TaskPatch{
		Title:       strPtr("final"),
		IsRecurring: boolPtr(true),
		DueDate:     strPtr("2024-04-01"),
	}))
	fresh, err := store.tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", fresh.Title)
	assert.True(t, fresh.IsRecurring)
	require.NotNil(t, fresh.Description)
	assert.Equal(t, "old", *fresh.Description)
	require.NotNil(t, fresh.DueDate)
	assert.Equal(t, "2024-04-01", *fresh.DueDate)

	assert.ErrorIs(t, svc.UpdateTask(ctx, task.ID, TaskPatch{Title: strPtr("")}), ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdateTask(ctx, 999, TaskPatch{Title: strPtr("ghost")}), ErrNotFound)
}

func TestDeleteTaskRemovesSubtreeAndRecountsDays(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store)
	tracker := NewTrackerService(store)
	ctx := context.Background()
	require.NoError(t, tracker.InitializeDays(ctx, testNow))

	a, b, _, d := family(t, tasks)
	keep, err := tasks.CreateTask(ctx, TaskInput{Title: "keep"})
	require.NoError(t, err)
	for _, id := range []uint{d.ID, keep.ID} {
		_, err := tracker.AssignTask(ctx, id, 2, "")
		require.NoError(t, err)
	}

	require.NoError(t, tasks.DeleteTask(ctx, b.ID))
	require.NoError(t, tasks.DeleteTask(ctx, b.ID), "deleting twice is a no-op")

	_, err = store.tasks.FindByID(ctx, d.ID)
	assert.Error(t, err)
	_, err = store.tasks.FindByID(ctx, a.ID)
	assert.NoError(t, err)

	day, err := tracker.Day(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, day.TasksTotal)
	assert.Equal(t, model.ColorRed, day.CompletionStatus)
}
