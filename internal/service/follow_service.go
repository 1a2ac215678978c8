package service

import (
	"context"
	"errors"

	"blog/internal/entity"
	"blog/internal/nlog"
	"blog/internal/repository"

	"gorm.io/gorm"
)

type FollowService interface {
	// Follow makes actor follow username. Following oneself is a no-op and repeated calls keep a single edge.
	Follow(ctx context.Context, actor entity.Actor, username string) (created bool, err error)
	// Unfollow removes the edge; a missing edge is a no-op.
	Unfollow(ctx context.Context, actor entity.Actor, username string) (removed bool, err error)
}

type followService struct {
	followRepository repository.FollowRepository
	userRepository   repository.UserRepository
	logger           nlog.Logger
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, logger nlog.Logger) FollowService {
	return &followService{
		followRepository: followRepo,
		userRepository:   userRepo,
		logger:           logger,
	}
}

func (f *followService) Logf(format string, v ...any) {
	f.logger.Logf(format, v...)
}

func (f *followService) Follow(ctx context.Context, actor entity.Actor, username string) (bool, error) {
	author, err := f.target(ctx, actor, username)
	if err != nil {
		return false, err
	}
	if actor.Is(*author) {
		return false, nil
	}

	created, err := f.followRepository.Create(ctx, actor.ID, author.ID)
	if err != nil {
		return false, Wrap(ErrInternal, "could not follow", err)
	}
	if created {
		f.Logf("%s now follows %s", actor.Username, author.Username)
	}
	return created, nil
}

func (f *followService) Unfollow(ctx context.Context, actor entity.Actor, username string) (bool, error) {
	author, err := f.target(ctx, actor, username)
	if err != nil {
		return false, err
	}

	removed, err := f.followRepository.Delete(ctx, actor.ID, author.ID)
	if err != nil {
		return false, Wrap(ErrInternal, "could not unfollow", err)
	}
	if removed {
		f.Logf("%s stopped following %s", actor.Username, author.Username)
	}
	return removed, nil
}

func (f *followService) target(ctx context.Context, actor entity.Actor, username string) (*entity.User, error) {
	if !actor.IsAuthenticated() {
		return nil, New(ErrUnauthorized, "login required")
	}
	author, err := f.userRepository.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, New(ErrNotFound, "user not found")
		}
		return nil, Wrap(ErrInternal, "could not load user", err)
	}
	return author, nil
}
