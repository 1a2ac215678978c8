package repository

import (
	"context"

	"blog/internal/entity"

	"gorm.io/gorm"
)

type GroupRepository interface {
	Create(ctx context.Context, group *entity.Group) error
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*entity.Group, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Group, error)
	List(ctx context.Context) ([]entity.Group, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db}
}

func (repo *groupRepository) Create(ctx context.Context, group *entity.Group) error {
	return repo.db.WithContext(ctx).Create(group).Error
}

func (repo *groupRepository) Delete(ctx context.Context, id uint) error {
	return repo.db.WithContext(ctx).Delete(&entity.Group{}, id).Error
}

func (repo *groupRepository) GetByID(ctx context.Context, id uint) (*entity.Group, error) {
	var group entity.Group
	if err := repo.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (repo *groupRepository) GetBySlug(ctx context.Context, slug string) (*entity.Group, error) {
	var group entity.Group
	if err := repo.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (repo *groupRepository) List(ctx context.Context) ([]entity.Group, error) {
	var groups []entity.Group
	err := repo.db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&groups).Error
	return groups, err
}
