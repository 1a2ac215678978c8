package service

import (
	"context"
	"errors"

	"blog/internal/entity"
	"blog/internal/nlog"
	"blog/internal/pagination"
	"blog/internal/repository"

	"gorm.io/gorm"
)

// ProfileView is an author's page as seen by a viewer.
type ProfileView struct {
	Author    *entity.User
	Page      pagination.Page
	Following bool // viewer follows Author; always false for anonymous viewers
	IsSelf    bool
}

// FeedService assembles paginated, newest first post feeds.
type FeedService interface {
	Index(ctx context.Context, page int) (pagination.Page, error)
	Group(ctx context.Context, slug string, page int) (*entity.Group, pagination.Page, error)
	Profile(ctx context.Context, viewer entity.Actor, username string, page int) (*ProfileView, error)
	Following(ctx context.Context, actor entity.Actor, page int) (pagination.Page, error)
}

type feedService struct {
	perPage int

	postRepository   repository.PostRepository
	groupRepository  repository.GroupRepository
	userRepository   repository.UserRepository
	followRepository repository.FollowRepository
	logger           nlog.Logger
}

func NewFeedService(perPage int, postRepo repository.PostRepository, groupRepo repository.GroupRepository, userRepo repository.UserRepository, followRepo repository.FollowRepository, logger nlog.Logger) FeedService {
	return &feedService{
		perPage:          perPage,
		postRepository:   postRepo,
		groupRepository:  groupRepo,
		userRepository:   userRepo,
		followRepository: followRepo,
		logger:           logger,
	}
}

func (f *feedService) Logf(format string, v ...any) {
	f.logger.Logf(format, v...)
}

func (f *feedService) Index(ctx context.Context, page int) (pagination.Page, error) {
	return f.paginate(ctx, repository.PostFilter{}, page)
}

func (f *feedService) Group(ctx context.Context, slug string, page int) (*entity.Group, pagination.Page, error) {
	group, err := f.groupRepository.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pagination.Page{}, New(ErrNotFound, "group not found")
		}
		return nil, pagination.Page{}, Wrap(ErrInternal, "could not load group", err)
	}

	p, err := f.paginate(ctx, repository.PostFilter{GroupID: group.ID}, page)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return group, p, nil
}

func (f *feedService) Profile(ctx context.Context, viewer entity.Actor, username string, page int) (*ProfileView, error) {
	author, err := f.userRepository.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, New(ErrNotFound, "user not found")
		}
		return nil, Wrap(ErrInternal, "could not load user", err)
	}

	p, err := f.paginate(ctx, repository.PostFilter{AuthorID: author.ID}, page)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{Author: author, Page: p, IsSelf: viewer.Is(*author)}
	if viewer.IsAuthenticated() && !view.IsSelf {
		if view.Following, err = f.followRepository.Exists(ctx, viewer.ID, author.ID); err != nil {
			return nil, Wrap(ErrInternal, "could not check follow", err)
		}
	}
	return view, nil
}

func (f *feedService) Following(ctx context.Context, actor entity.Actor, page int) (pagination.Page, error) {
	if !actor.IsAuthenticated() {
		return pagination.Page{}, New(ErrUnauthorized, "login required")
	}
	return f.paginate(ctx, repository.PostFilter{FollowerID: actor.ID}, page)
}

func (f *feedService) paginate(ctx context.Context, filter repository.PostFilter, number int) (pagination.Page, error) {
	total, err := f.postRepository.Count(ctx, filter)
	if err != nil {
		return pagination.Page{}, Wrap(ErrInternal, "could not count posts", err)
	}

	window := pagination.Locate(total, number, f.perPage)
	if window.Empty {
		return pagination.NewPage(nil, total, number, f.perPage), nil
	}

	posts, err := f.postRepository.List(ctx, filter, window.Offset, window.Limit)
	if err != nil {
		return pagination.Page{}, Wrap(ErrInternal, "could not list posts", err)
	}
	return pagination.NewPage(posts, total, number, f.perPage), nil
}
