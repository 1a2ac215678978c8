package data

import (
	"blog/internal/cache"
	"blog/internal/repository"

	"gorm.io/gorm"
)

// StorageManager gathers every repository and the page cache in a single container.
type StorageManager struct {
	db *gorm.DB

	pageCache *cache.PageCache // Rendered pages, shared by every request

	// Repositories
	userRepo    repository.UserRepository
	groupRepo   repository.GroupRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository
}

// NewStorageManager migrates the schema and builds the repositories on top of db.
func NewStorageManager(db *gorm.DB) (*StorageManager, error) {
	if err := repository.Migrate(db); err != nil {
		return nil, err
	}

	return &StorageManager{
		db:          db,
		pageCache:   cache.NewPageCache(),
		userRepo:    repository.NewUserRepository(db),
		groupRepo:   repository.NewGroupRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		followRepo:  repository.NewFollowRepository(db),
	}, nil
}

func (s *StorageManager) GetPageCache() *cache.PageCache {
	return s.pageCache
}

func (s *StorageManager) GetUserRepository() repository.UserRepository {
	return s.userRepo
}

func (s *StorageManager) GetGroupRepository() repository.GroupRepository {
	return s.groupRepo
}

func (s *StorageManager) GetPostRepository() repository.PostRepository {
	return s.postRepo
}

func (s *StorageManager) GetCommentRepository() repository.CommentRepository {
	return s.commentRepo
}

func (s *StorageManager) GetFollowRepository() repository.FollowRepository {
	return s.followRepo
}

func (s *StorageManager) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
