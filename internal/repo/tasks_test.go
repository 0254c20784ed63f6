package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nmoreau/daylist/internal/models"
)

func TestListTasksEmpty(t *testing.T) {
	r := newTestRepo(t)
	alice := createTestUser(t, r, "alice", "a@x.com")

	tasks, err := r.ListTasks(context.Background(), alice.ID)
	require.NoError(t, err)
	require.NotNil(t, tasks)
	require.Empty(t, tasks)
}

func TestListTasksOrderAndScope(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	alice := createTestUser(t, r, "alice", "a@x.com")
	bob := createTestUser(t, r, "bob", "b@x.com")

	base := time.Now().UTC().Truncate(time.Second)
	older := models.Task{UserID: alice.ID, Title: "older", CreatedAt: base.Add(-time.Hour)}
	newer := models.Task{UserID: alice.ID, Title: "newer", CreatedAt: base}
	other := models.Task{UserID: bob.ID, Title: "bobs", CreatedAt: base}
	require.NoError(t, r.DB.Create(&older).Error)
	require.NoError(t, r.DB.Create(&newer).Error)
	require.NoError(t, r.DB.Create(&other).Error)

	tasks, err := r.ListTasks(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, "newer", tasks[0].Title)
	require.Equal(t, "older", tasks[1].Title)
}

func TestCreateTaskStampsOwner(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	alice := createTestUser(t, r, "alice", "a@x.com")

	task, err := r.CreateTask(ctx, alice.ID, "buy milk", false)
	require.NoError(t, err)
	require.Equal(t, alice.ID, task.UserID)
	require.NotEqual(t, uuid.Nil, task.ID)
	require.False(t, task.Completed)
}

func TestUpdateTaskPartial(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	alice := createTestUser(t, r, "alice", "a@x.com")

	task, err := r.CreateTask(ctx, alice.ID, "buy milk", false)
	require.NoError(t, err)

	completed := true
	updated, err := r.UpdateTask(ctx, alice.ID, task.ID, TaskPatch{Completed: &completed})
	require.NoError(t, err)
	require.True(t, updated.Completed)
	require.Equal(t, "buy milk", updated.Title)

	title := "buy bread"
	updated, err = r.UpdateTask(ctx, alice.ID, task.ID, TaskPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "buy bread", updated.Title)
	require.True(t, updated.Completed)
}

func TestUpdateTaskWrongOwner(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	alice := createTestUser(t, r, "alice", "a@x.com")
	bob := createTestUser(t, r, "bob", "b@x.com")

	task, err := r.CreateTask(ctx, bob.ID, "bobs task", false)
	require.NoError(t, err)

	title := "hijacked"
	_, err = r.UpdateTask(ctx, alice.ID, task.ID, TaskPatch{Title: &title})
	require.ErrorIs(t, err, ErrNotFound)

	// Bob's record is untouched.
	var stored models.Task
	require.NoError(t, r.DB.First(&stored, "id = ?", task.ID).Error)
	require.Equal(t, "bobs task", stored.Title)
}

func TestUpdateTaskMissing(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	alice := createTestUser(t, r, "alice", "a@x.com")

	title := "x"
	_, err := r.UpdateTask(ctx, alice.ID, uuid.New(), TaskPatch{Title: &title})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	alice := createTestUser(t, r, "alice", "a@x.com")

	task, err := r.CreateTask(ctx, alice.ID, "buy milk", false)
	require.NoError(t, err)

	require.NoError(t, r.DeleteTask(ctx, alice.ID, task.ID))
	require.ErrorIs(t, r.DeleteTask(ctx, alice.ID, task.ID), ErrNotFound)
}

func TestDeleteTaskWrongOwner(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	alice := createTestUser(t, r, "alice", "a@x.com")
	bob := createTestUser(t, r, "bob", "b@x.com")

	task, err := r.CreateTask(ctx, bob.ID, "bobs task", false)
	require.NoError(t, err)

	require.ErrorIs(t, r.DeleteTask(ctx, alice.ID, task.ID), ErrNotFound)

	var count int64
	require.NoError(t, r.DB.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
