package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"focus-tracker/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(DriverSQLite, filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestNewDBSeedsStatsOnce(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db))

	var n int64
	require.NoError(t, db.Model(&model.Stats{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	stats, err := NewStatsRepository(db).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(model.StatsID), stats.ID)
	assert.Zero(t, stats.CurrentStreak)
	assert.Nil(t, stats.LastStudyDate)
}

func TestNewDBCreatesSQLiteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	db, err := NewDB("", filepath.Join(dir, "tracker.db"))
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestNewDBRejectsUnknownDriver(t *testing.T) {
	_, err := NewDB("mysql", "whatever")
	assert.Error(t, err)

	_, err = NewDB(DriverPostgres, "")
	assert.Error(t, err)
}

func TestAssignmentCounts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tasks := NewTaskRepository(db)
	assignments := NewAssignmentRepository(db)

	a := &model.Task{Title: "read"}
	b := &model.Task{Title: "write"}
	require.NoError(t, tasks.Create(ctx, a))
	require.NoError(t, tasks.Create(ctx, b))
	require.NoError(t, assignments.Create(ctx, &model.Assignment{TaskID: a.ID, DayNumber: 3, AssignedBy: "manual"}))
	require.NoError(t, assignments.Create(ctx, &model.Assignment{TaskID: b.ID, DayNumber: 3, AssignedBy: "ai"}))
	require.NoError(t, assignments.Create(ctx, &model.Assignment{TaskID: b.ID, DayNumber: 7, AssignedBy: "manual"}))

	// The unique index rejects a duplicate pair.
	assert.Error(t, assignments.Create(ctx, &model.Assignment{TaskID: a.ID, DayNumber: 3}))

	require.NoError(t, tasks.SetCompleted(ctx, []uint{b.ID}, true))

	total, err := assignments.CountByDay(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	done, err := assignments.CountCompletedByDay(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, done)

	days, err := assignments.DaysForTasks(ctx, []uint{b.ID})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7}, days)

	exists, err := assignments.Exists(ctx, a.ID, 7)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTaskDeleteManyCleansUp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tasks := NewTaskRepository(db)
	sessions := NewSessionRepository(db)
	assignments := NewAssignmentRepository(db)

	task := &model.Task{Title: "doomed"}
	require.NoError(t, tasks.Create(ctx, task))
	require.NoError(t, assignments.Create(ctx, &model.Assignment{TaskID: task.ID, DayNumber: 1, AssignedBy: "manual"}))
	session := &model.Session{TaskID: &task.ID, StartTime: time.Now(), DurationMinutes: 25, Date: "2024-01-01"}
	require.NoError(t, sessions.Create(ctx, session))

	require.NoError(t, tasks.DeleteMany(ctx, []uint{task.ID}))

	_, err := tasks.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	total, err := assignments.CountByDay(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, total)

	reloaded, err := sessions.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.TaskID)
}

func TestSessionAggregates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)

	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	for _, s := range []model.Session{
		{StartTime: start, DurationMinutes: 25, Date: "2024-01-02"},
		{StartTime: start.Add(time.Hour), DurationMinutes: 50, Date: "2024-01-02"},
		{StartTime: start.AddDate(0, 0, 1), DurationMinutes: 15, Date: "2024-01-03"},
		{StartTime: start.AddDate(0, 0, 2), DurationMinutes: 45, Date: "2024-01-04"},
	} {
		s := s
		require.NoError(t, repo.Create(ctx, &s))
		if s.Date != "2024-01-04" {
			require.NoError(t, repo.MarkCompleted(ctx, &s, s.StartTime.Add(time.Duration(s.DurationMinutes)*time.Minute)))
		}
	}

	count, minutes, err := repo.CompletedTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 90, minutes)

	dates, err := repo.CompletedDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-03", "2024-01-02"}, dates)

	recent, err := repo.ListSince(ctx, "2024-01-03")
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "2024-01-04", recent[0].Date)
}

func TestSessionMarkCompletedIsOneShot(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)

	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	s := &model.Session{StartTime: start, DurationMinutes: 25, Date: "2024-01-02"}
	require.NoError(t, repo.Create(ctx, s))

	first := start.Add(25 * time.Minute)
	require.NoError(t, repo.MarkCompleted(ctx, s, first))
	require.NoError(t, repo.MarkCompleted(ctx, s, first.Add(time.Hour)))

	reloaded, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.EndTime)
	assert.True(t, reloaded.EndTime.Equal(first))
}
