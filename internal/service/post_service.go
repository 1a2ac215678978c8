package service

import (
	"context"
	"errors"

	"blog/internal/entity"
	"blog/internal/nlog"
	"blog/internal/repository"
	"blog/internal/storage"

	"gorm.io/gorm"
)

// Uploaded images live under this namespace in the media storage.
const imageNamespace = "posts"

// PostDetail is everything the post page shows.
type PostDetail struct {
	Post            *entity.Post
	Comments        []entity.Comment
	AuthorPostCount int64
}

type PostService interface {
	Create(ctx context.Context, actor entity.Actor, form PostForm) (*entity.Post, error)
	// Edit returns ErrForbidden without writing anything when actor is not the author.
	Edit(ctx context.Context, actor entity.Actor, id uint, form PostForm) (*entity.Post, error)
	Delete(ctx context.Context, actor entity.Actor, id uint) (*entity.Post, error)

	Get(ctx context.Context, id uint) (*entity.Post, error)
	Detail(ctx context.Context, id uint) (*PostDetail, error)
}

type postService struct {
	postRepository    repository.PostRepository
	groupRepository   repository.GroupRepository
	commentRepository repository.CommentRepository
	media             storage.MediaStorage
	logger            nlog.Logger
}

func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository, commentRepo repository.CommentRepository, media storage.MediaStorage, logger nlog.Logger) PostService {
	return &postService{
		postRepository:    postRepo,
		groupRepository:   groupRepo,
		commentRepository: commentRepo,
		media:             media,
		logger:            logger,
	}
}

func (p *postService) Logf(format string, v ...any) {
	p.logger.Logf(format, v...)
}

func (p *postService) Create(ctx context.Context, actor entity.Actor, form PostForm) (*entity.Post, error) {
	if !actor.IsAuthenticated() {
		return nil, New(ErrUnauthorized, "login required")
	}

	contentType, err := p.check(ctx, &form)
	if err != nil {
		return nil, err
	}

	post := &entity.Post{
		Text:     form.Text,
		AuthorID: actor.ID,
		GroupID:  form.GroupID,
	}
	if form.Image != nil {
		if post.Image, err = p.storeImage(ctx, form.Image, contentType); err != nil {
			return nil, err
		}
	}

	if err := p.postRepository.Create(ctx, post); err != nil {
		return nil, Wrap(ErrInternal, "could not create post", err)
	}
	p.Logf("Post created {id:%d, author:%s}", post.ID, actor.Username)
	return post, nil
}

func (p *postService) Edit(ctx context.Context, actor entity.Actor, id uint, form PostForm) (*entity.Post, error) {
	post, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Is(post.Author) {
		p.Logf("Edit of post %d refused for {%s}", id, actor.Username)
		return post, New(ErrForbidden, "only the author can edit a post")
	}

	contentType, err := p.check(ctx, &form)
	if err != nil {
		return post, err
	}

	post.Text = form.Text
	post.GroupID = form.GroupID
	switch {
	case form.Image != nil:
		if post.Image, err = p.storeImage(ctx, form.Image, contentType); err != nil {
			return post, err
		}
	case form.ClearImage:
		post.Image = ""
	}

	if err := p.postRepository.Update(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, New(ErrNotFound, "post not found")
		}
		return post, Wrap(ErrInternal, "could not update post", err)
	}
	p.Logf("Post edited {id:%d}", post.ID)
	return post, nil
}

func (p *postService) Delete(ctx context.Context, actor entity.Actor, id uint) (*entity.Post, error) {
	post, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Is(post.Author) {
		return post, New(ErrForbidden, "only the author can delete a post")
	}

	if err := p.postRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, New(ErrNotFound, "post not found")
		}
		return post, Wrap(ErrInternal, "could not delete post", err)
	}
	p.Logf("Post deleted {id:%d}", id)
	return post, nil
}

func (p *postService) Get(ctx context.Context, id uint) (*entity.Post, error) {
	post, err := p.postRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, New(ErrNotFound, "post not found")
		}
		return nil, Wrap(ErrInternal, "could not load post", err)
	}
	return post, nil
}

func (p *postService) Detail(ctx context.Context, id uint) (*PostDetail, error) {
	post, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := p.commentRepository.ListByPost(ctx, id)
	if err != nil {
		return nil, Wrap(ErrInternal, "could not load comments", err)
	}
	count, err := p.postRepository.Count(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, Wrap(ErrInternal, "could not count posts", err)
	}

	return &PostDetail{Post: post, Comments: comments, AuthorPostCount: count}, nil
}

// check validates the form, including the group reference and the uploaded image,
// and returns the sniffed image content type.
func (p *postService) check(ctx context.Context, form *PostForm) (string, error) {
	form.normalize()
	fields := validateForm(form)
	if fields == nil {
		fields = map[string]string{}
	}

	if form.GroupID != nil {
		if _, err := p.groupRepository.GetByID(ctx, *form.GroupID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return "", Wrap(ErrInternal, "could not load group", err)
			}
			fields["group"] = "Select a valid choice. That choice is not one of the available choices."
		}
	}

	var contentType string
	if form.Image != nil {
		var ok bool
		if contentType, ok = storage.DetectImage(form.Image.Data); !ok {
			fields["image"] = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
		}
	}

	if len(fields) > 0 {
		return "", Invalid(fields)
	}
	return contentType, nil
}

func (p *postService) storeImage(ctx context.Context, upload *Upload, contentType string) (string, error) {
	key := storage.ObjectKey(imageNamespace, upload.Filename, contentType)
	if err := p.media.Save(ctx, key, upload.Data, contentType); err != nil {
		return "", Wrap(ErrInternal, "could not store image", err)
	}
	return key, nil
}
