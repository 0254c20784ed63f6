package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nmoreau/daylist/internal/models"
)

type NotePatch struct {
	Title   *string
	Content *string
}

func (r *Repo) ListNotes(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	err := r.DB.WithContext(ctx).Scopes(ownedBy(ownerID)).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *Repo) CreateNote(ctx context.Context, ownerID uuid.UUID, title, content string) (*models.Note, error) {
	note := models.Note{
		UserID:  ownerID,
		Title:   title,
		Content: content,
	}
	if err := r.DB.WithContext(ctx).Create(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *Repo) UpdateNote(ctx context.Context, ownerID, id uuid.UUID, patch NotePatch) (*models.Note, error) {
	var note models.Note
	err := r.DB.WithContext(ctx).Scopes(ownedBy(ownerID)).
		Where("id = ?", id).
		First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}

	if err := r.DB.WithContext(ctx).Save(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *Repo) DeleteNote(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Scopes(ownedBy(ownerID)).
		Where("id = ?", id).
		Delete(&models.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
