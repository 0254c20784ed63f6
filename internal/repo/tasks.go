package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nmoreau/daylist/internal/models"
)

// TaskPatch carries a partial update; nil fields keep their prior value.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

func (r *Repo) ListTasks(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	err := r.DB.WithContext(ctx).Scopes(ownedBy(ownerID)).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *Repo) CreateTask(ctx context.Context, ownerID uuid.UUID, title string, completed bool) (*models.Task, error) {
	task := models.Task{
		UserID:    ownerID,
		Title:     title,
		Completed: completed,
	}
	if err := r.DB.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *Repo) UpdateTask(ctx context.Context, ownerID, id uuid.UUID, patch TaskPatch) (*models.Task, error) {
	var task models.Task
	err := r.DB.WithContext(ctx).Scopes(ownedBy(ownerID)).
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}

	if err := r.DB.WithContext(ctx).Save(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *Repo) DeleteTask(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Scopes(ownedBy(ownerID)).
		Where("id = ?", id).
		Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
