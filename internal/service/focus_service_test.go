package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeOn(t *testing.T, svc *FocusService, at time.Time, minutes int) {
	t.Helper()
	ctx := context.Background()
	session, err := svc.StartSession(ctx, nil, minutes, at)
	require.NoError(t, err)
	_, err = svc.CompleteSession(ctx, session.ID, at.Add(time.Duration(minutes)*time.Minute))
	require.NoError(t, err)
}

func TestStartSessionValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewFocusService(store, false)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, nil, 0, testNow)
	assert.ErrorIs(t, err, ErrInvalidInput)

	missing := uint(8)
	_, err = svc.StartSession(ctx, &missing, 25, testNow)
	assert.ErrorIs(t, err, ErrNotFound)

	task, err := NewTaskService(store).CreateTask(ctx, TaskInput{Title: "essay"})
	require.NoError(t, err)
	session, err := svc.StartSession(ctx, &task.ID, 25, testNow)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", session.Date)
	assert.False(t, session.Completed)
	assert.Nil(t, session.EndTime)
}

func TestCompleteSessionRecomputesStats(t *testing.T) {
	svc := NewFocusService(newTestStore(t), false)
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTasksCompleted)

	completeOn(t, svc, testNow.AddDate(0, 0, -5), 25)
	completeOn(t, svc, testNow, 50)
	completeOn(t, svc, testNow.Add(2*time.Hour), 15)

	// An abandoned session never counts.
	_, err = svc.StartSession(ctx, nil, 45, testNow)
	require.NoError(t, err)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTasksCompleted)
	assert.Equal(t, 90, stats.TotalStudyMinutes)
	assert.Equal(t, 2, stats.CurrentStreak, "distinct dates continue a streak")
	assert.Equal(t, 2, stats.LongestStreak)
	require.NotNil(t, stats.LastStudyDate)
	assert.Equal(t, "2024-03-10", *stats.LastStudyDate)
}

func TestCompleteSessionWithCalendarStreaks(t *testing.T) {
	svc := NewFocusService(newTestStore(t), true)
	ctx := context.Background()

	for _, offset := range []int{-9, -8, -7, -6, -2, 0} {
		completeOn(t, svc, testNow.AddDate(0, 0, offset), 25)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 4, stats.LongestStreak)
}

func TestCompleteSessionOnlyOnce(t *testing.T) {
	store := newTestStore(t)
	svc := NewFocusService(store, false)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, nil, 25, testNow)
	require.NoError(t, err)
	first, err := svc.CompleteSession(ctx, session.ID, testNow.Add(25*time.Minute))
	require.NoError(t, err)

	again, err := svc.CompleteSession(ctx, session.ID, testNow.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, first.TotalStudyMinutes, again.TotalStudyMinutes)
	assert.Equal(t, *first.LastStudyDate, *again.LastStudyDate)

	stored, err := store.sessions.FindByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EndTime)
	assert.True(t, stored.EndTime.Equal(testNow.Add(25*time.Minute)))

	_, err = svc.CompleteSession(ctx, 4242, testNow)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryWindow(t *testing.T) {
	svc := NewFocusService(newTestStore(t), false)
	ctx := context.Background()

	for _, offset := range []int{-30, -7, -3, 0} {
		_, err := svc.StartSession(ctx, nil, 25, testNow.AddDate(0, 0, offset))
		require.NoError(t, err)
	}

	week, err := svc.History(ctx, 0, testNow)
	require.NoError(t, err)
	require.Len(t, week, 3)
	assert.Equal(t, "2024-03-10", week[0].Date)
	assert.Equal(t, "2024-03-03", week[2].Date)

	month, err := svc.History(ctx, 31, testNow)
	require.NoError(t, err)
	assert.Len(t, month, 4)
}
