package task

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/internal/store"
	"github.com/fastygo/productivity/repository/boltdb"
	"github.com/fastygo/productivity/usecase"
)

type achievementRecorder struct {
	sent []string
	err  error
}

func (a *achievementRecorder) SendAchievement(_ context.Context, achievement string) (*domain.NotificationItem, error) {
	a.sent = append(a.sent, achievement)
	return nil, a.err
}

var now = time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newUseCase(t *testing.T, achievements *achievementRecorder) *UseCase {
	t.Helper()
	db, err := boltdb.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := store.New(store.Backend{
		Tasks:         boltdb.NewTaskRepository(db),
		Insights:      boltdb.NewInsightRepository(db),
		Notifications: boltdb.NewNotificationRepository(db),
		Communication: boltdb.NewCommunicationRepository(db),
	}, store.WithClock(func() time.Time { return now }))

	var notifier usecase.AchievementNotifier
	if achievements != nil {
		notifier = achievements
	}
	return New(s, notifier, nil)
}

func TestUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t, &achievementRecorder{})

	created, err := uc.CreateTask(ctx, domain.CreateTaskRequest{Title: "Plan", Category: "work", Priority: domain.PriorityLow})
	require.NoError(t, err)

	got, err := uc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := uc.UpdateTask(ctx, created.ID, domain.UpdateTaskRequest{Title: ptr("Plan week")})
	require.NoError(t, err)
	assert.Equal(t, "Plan week", updated.Title)
	assert.Equal(t, "work", updated.Category)

	require.NoError(t, uc.DeleteTask(ctx, created.ID))
	assert.ErrorIs(t, uc.DeleteTask(ctx, created.ID), domain.ErrTaskNotFound)

	_, err = uc.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = uc.UpdateTask(ctx, created.ID, domain.UpdateTaskRequest{Title: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestUseCase_CompletionSendsAchievementOnce(t *testing.T) {
	ctx := context.Background()
	rec := &achievementRecorder{}
	uc := newUseCase(t, rec)

	created, err := uc.CreateTask(ctx, domain.CreateTaskRequest{Title: "Ship"})
	require.NoError(t, err)

	_, err = uc.UpdateTask(ctx, created.ID, domain.UpdateTaskRequest{Status: ptr(domain.StatusCompleted)})
	require.NoError(t, err)
	_, err = uc.UpdateTask(ctx, created.ID, domain.UpdateTaskRequest{Status: ptr(domain.StatusCompleted)})
	require.NoError(t, err)

	assert.Equal(t, []string{"Task completed: Ship"}, rec.sent)
}

func TestUseCase_AchievementFailureDoesNotFailUpdate(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t, &achievementRecorder{err: errors.New("disk full")})

	created, err := uc.CreateTask(ctx, domain.CreateTaskRequest{Title: "Ship"})
	require.NoError(t, err)

	updated, err := uc.UpdateTask(ctx, created.ID, domain.UpdateTaskRequest{Status: ptr(domain.StatusCompleted)})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted())
}

func TestUseCase_ListFilters(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t, nil)

	past := now.Add(-time.Hour)
	late, err := uc.CreateTask(ctx, domain.CreateTaskRequest{Title: "late", DueDate: &past})
	require.NoError(t, err)
	other, err := uc.CreateTask(ctx, domain.CreateTaskRequest{Title: "other"})
	require.NoError(t, err)
	_, err = uc.UpdateTask(ctx, other.ID, domain.UpdateTaskRequest{Status: ptr(domain.StatusInProgress)})
	require.NoError(t, err)

	all, err := uc.ListTasks(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inProgress, err := uc.ListTasks(ctx, ptr(domain.StatusInProgress))
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, other.ID, inProgress[0].ID)

	overdue, err := uc.ListOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)
}

func TestUseCase_StatsAndPatterns(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t, nil)

	for _, title := range []string{"a", "b"} {
		created, err := uc.CreateTask(ctx, domain.CreateTaskRequest{Title: title, Category: "work", Priority: domain.PriorityHigh})
		require.NoError(t, err)
		_, err = uc.UpdateTask(ctx, created.ID, domain.UpdateTaskRequest{Status: ptr(domain.StatusCompleted), ActualTime: ptr(20)})
		require.NoError(t, err)
	}
	_, err := uc.CreateTask(ctx, domain.CreateTaskRequest{Title: "c", Category: "home", Priority: domain.PriorityLow})
	require.NoError(t, err)

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTasks)
	assert.Equal(t, 2, stats.CompletedTasks)
	assert.Equal(t, 1, stats.PendingTasks)
	require.NotNil(t, stats.AverageCompletionTime)
	assert.InDelta(t, 20.0, *stats.AverageCompletionTime, 1e-9)
	assert.Equal(t, []int{10}, stats.MostProductiveHours)
	assert.Equal(t, []string{"work", "home"}, stats.CommonCategories)
	require.Len(t, stats.WeeklyProgress, 7)
	assert.Equal(t, 2, stats.WeeklyProgress[6].Completed)

	patterns, err := uc.Patterns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Most frequent category: work (2 tasks)",
		"Average completion time: 20.0 minutes",
		"67% of tasks are high priority",
	}, patterns)
}
