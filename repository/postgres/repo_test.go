package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/productivity/domain"
)

// Set TEST_DATABASE_URL to run these against a real server. Each test gets its own schema.
const dsnEnv = "TEST_DATABASE_URL"

var base = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newTask(req domain.CreateTaskRequest, now time.Time) *domain.Task {
	task := domain.NewTask(req, now)
	return &task
}

func newPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set", dsnEnv)
	}
	ctx := context.Background()
	schema := fmt.Sprintf("productivity_test_%d", time.Now().UnixNano())

	admin, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	up, err := os.ReadFile(filepath.Join("..", "..", "assets", "migrations", "000001_init.up.sql"))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(up))
	require.NoError(t, err)
	return pool
}

func TestTaskRepository_RoundTripAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newPool(t))

	late := newTask(domain.CreateTaskRequest{Title: "late", Category: "work", Priority: domain.PriorityHigh, DueDate: ptr(base.Add(-time.Hour))}, base)
	done := newTask(domain.CreateTaskRequest{Title: "done", Description: ptr("notes"), Priority: domain.PriorityLow}, base.Add(time.Second))
	require.NoError(t, repo.Create(ctx, late))
	require.NoError(t, repo.Create(ctx, done))

	done.ApplyUpdate(domain.UpdateTaskRequest{Status: ptr(domain.StatusCompleted), ActualTime: ptr(40)}, base.Add(time.Minute))
	require.NoError(t, repo.Update(ctx, done))

	got, err := repo.GetByID(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.NotNil(t, got.Description)
	assert.Equal(t, "notes", *got.Description)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(base.Add(time.Minute)))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, done.ID, all[0].ID)

	overdue, err := repo.ListOverdue(ctx, base)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)

	counts, err := repo.Counts(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Total)
	assert.Equal(t, 1, counts.Completed)
	assert.Equal(t, 1, counts.Pending)
	assert.Equal(t, 1, counts.Overdue)
	require.NotNil(t, counts.AverageActualTime)
	assert.InDelta(t, 40.0, *counts.AverageActualTime, 1e-9)

	deleted, err := repo.Delete(ctx, late.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, late.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTaskRepository_CountsWithoutCompletions(t *testing.T) {
	repo := NewTaskRepository(newPool(t))

	counts, err := repo.Counts(context.Background(), base)
	require.NoError(t, err)
	assert.Zero(t, counts.Total)
	assert.Nil(t, counts.AverageActualTime)
}

func TestCommunicationRepository_UpsertKeepsIDAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewCommunicationRepository(newPool(t))

	first := &domain.CommunicationActivity{
		ID: "c1", Service: "gmail", MessageCount: 5, UnreadCount: 2,
		KeywordsDetected: []string{"urgent"}, CreatedAt: base, UpdatedAt: base,
	}
	require.NoError(t, repo.SaveActivity(ctx, first))

	second := &domain.CommunicationActivity{
		ID: "c2", Service: "gmail", MessageCount: 9,
		KeywordsDetected: []string{}, CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour),
	}
	require.NoError(t, repo.SaveActivity(ctx, second))
	assert.Equal(t, "c1", second.ID)
	assert.True(t, second.CreatedAt.Equal(base))
	assert.True(t, second.UpdatedAt.Equal(base.Add(time.Hour)))

	list, err := repo.ListActivity(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].ID)
	assert.Equal(t, 9, list[0].MessageCount)
	assert.Equal(t, 0, list[0].UnreadCount)
	assert.Empty(t, list[0].KeywordsDetected)
	assert.True(t, list[0].CreatedAt.Equal(base))
}

func TestNotificationAndInsightRepositories(t *testing.T) {
	ctx := context.Background()
	pool := newPool(t)
	notifications := NewNotificationRepository(pool)
	insights := NewInsightRepository(pool)

	require.NoError(t, notifications.SaveNotification(ctx, &domain.NotificationItem{
		ID: "old", Title: "t", Message: "m", NotificationType: domain.NotificationAccountability, CreatedAt: base,
	}))
	require.NoError(t, notifications.SaveNotification(ctx, &domain.NotificationItem{
		ID: "new", Title: "t", Message: "m", NotificationType: domain.NotificationTaskReminder,
		CreatedAt: base.Add(time.Minute), ActionURL: ptr("app://task/1"),
	}))

	items, err := notifications.Notifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].ID)
	require.NotNil(t, items[0].ActionURL)

	found, err := notifications.MarkRead(ctx, "old")
	require.NoError(t, err)
	assert.True(t, found)
	found, err = notifications.MarkRead(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, found)

	unread, err := notifications.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	require.NoError(t, insights.SaveInsight(ctx, &domain.Insight{
		ID: "i1", Message: "tip", InsightType: domain.InsightProductivityTip, Confidence: 0.6, CreatedAt: base,
	}))
	recent, err := insights.RecentInsights(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.InDelta(t, 0.6, recent[0].Confidence, 1e-9)
}
