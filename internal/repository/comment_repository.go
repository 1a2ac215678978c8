package repository

import (
	"context"

	"blog/internal/entity"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]entity.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db}
}

func (repo *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return repo.db.WithContext(ctx).Omit("Post", "Author").Create(comment).Error
}

func (repo *commentRepository) ListByPost(ctx context.Context, postID uint) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := repo.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created DESC").
		Order("id DESC").
		Find(&comments).Error
	return comments, err
}
