package repository

import (
	"context"

	"blog/internal/entity"

	"gorm.io/gorm"
)

// PostFilter narrows a feed. Zero fields are ignored.
type PostFilter struct {
	GroupID    uint
	AuthorID   uint
	FollowerID uint // only posts whose author is followed by this user
}

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*entity.Post, error)

	Count(ctx context.Context, filter PostFilter) (int64, error)
	List(ctx context.Context, filter PostFilter, offset, limit int) ([]entity.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db}
}

func (repo *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return repo.db.WithContext(ctx).Omit("Author", "Group").Create(post).Error
}

// Update writes the editable columns only; author and pub date never change.
func (repo *postRepository) Update(ctx context.Context, post *entity.Post) error {
	result := repo.db.WithContext(ctx).
		Model(&entity.Post{ID: post.ID}).
		Select("Text", "GroupID", "Image").
		Updates(&entity.Post{Text: post.Text, GroupID: post.GroupID, Image: post.Image})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (repo *postRepository) Delete(ctx context.Context, id uint) error {
	result := repo.db.WithContext(ctx).Delete(&entity.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (repo *postRepository) GetByID(ctx context.Context, id uint) (*entity.Post, error) {
	var post entity.Post
	err := repo.db.WithContext(ctx).Preload("Author").Preload("Group").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (repo *postRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	var total int64
	err := repo.filtered(ctx, filter).Count(&total).Error
	return total, err
}

func (repo *postRepository) List(ctx context.Context, filter PostFilter, offset, limit int) ([]entity.Post, error) {
	var posts []entity.Post
	err := repo.filtered(ctx, filter).
		Preload("Author").
		Preload("Group").
		Order("posts.pub_date DESC").
		Order("posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (repo *postRepository) filtered(ctx context.Context, filter PostFilter) *gorm.DB {
	query := repo.db.WithContext(ctx).Model(&entity.Post{})
	if filter.GroupID != 0 {
		query = query.Where("posts.group_id = ?", filter.GroupID)
	}
	if filter.AuthorID != 0 {
		query = query.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.FollowerID != 0 {
		followed := repo.db.WithContext(ctx).Model(&entity.Follow{}).Select("author_id").Where("user_id = ?", filter.FollowerID)
		query = query.Where("posts.author_id IN (?)", followed)
	}
	return query
}
