package repository

import (
	"context"

	"blog/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository interface {
	// Create inserts the edge unless it already exists; created reports which happened.
	Create(ctx context.Context, userID, authorID uint) (created bool, err error)
	// Delete removes the edge if present; deleted reports whether a row went away.
	Delete(ctx context.Context, userID, authorID uint) (deleted bool, err error)
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
	Count(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db}
}

func (repo *followRepository) Create(ctx context.Context, userID, authorID uint) (bool, error) {
	follow := entity.Follow{UserID: userID, AuthorID: authorID}
	result := repo.db.WithContext(ctx).
		Omit("User", "Author").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		Create(&follow)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (repo *followRepository) Delete(ctx context.Context, userID, authorID uint) (bool, error) {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&entity.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *followRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var n int64
	err := repo.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

// Count returns how many authors the user follows.
func (repo *followRepository) Count(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := repo.db.WithContext(ctx).Model(&entity.Follow{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
