package service

import (
	"context"
	"errors"

	"blog/internal/entity"
	"blog/internal/nlog"
	"blog/internal/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	Add(ctx context.Context, actor entity.Actor, postID uint, form CommentForm) (*entity.Comment, error)
}

type commentService struct {
	commentRepository repository.CommentRepository
	postRepository    repository.PostRepository
	logger            nlog.Logger
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, logger nlog.Logger) CommentService {
	return &commentService{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		logger:            logger,
	}
}

func (c *commentService) Logf(format string, v ...any) {
	c.logger.Logf(format, v...)
}

func (c *commentService) Add(ctx context.Context, actor entity.Actor, postID uint, form CommentForm) (*entity.Comment, error) {
	if !actor.IsAuthenticated() {
		return nil, New(ErrUnauthorized, "login required")
	}

	post, err := c.postRepository.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, New(ErrNotFound, "post not found")
		}
		return nil, Wrap(ErrInternal, "could not load post", err)
	}

	form.normalize()
	if fields := validateForm(&form); fields != nil {
		return nil, Invalid(fields)
	}

	comment := &entity.Comment{PostID: post.ID, AuthorID: actor.ID, Text: form.Text}
	if err := c.commentRepository.Create(ctx, comment); err != nil {
		return nil, Wrap(ErrInternal, "could not create comment", err)
	}
	c.Logf("Comment created {id:%d, post:%d, author:%s}", comment.ID, post.ID, actor.Username)
	return comment, nil
}
