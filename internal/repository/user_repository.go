package repository

import (
	"context"

	"blog/internal/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User, hash string) error
	Delete(ctx context.Context, id uint) error

	GetForLogin(ctx context.Context, username string) (*entity.User, string, error)

	GetByID(ctx context.Context, id uint) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

// Create stores the user and its password hash in one transaction.
func (repo *userRepository) Create(ctx context.Context, user *entity.User, hash string) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		secret := entity.UserSecret{UserID: user.ID, Hash: hash}
		if err := tx.Omit("User").Create(&secret).Error; err != nil {
			return err
		}
		return nil
	})
}

func (repo *userRepository) Delete(ctx context.Context, id uint) error {
	return repo.db.WithContext(ctx).Delete(&entity.User{}, id).Error
}

func (repo *userRepository) GetForLogin(ctx context.Context, username string) (*entity.User, string, error) {
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}

	var secret entity.UserSecret
	if err := repo.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&secret).Error; err != nil {
		return nil, "", err
	}
	return user, secret.Hash, nil
}

func (repo *userRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := repo.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	if err := repo.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
