package service

import (
	"context"
	"errors"

	"blog/internal/entity"
	"blog/internal/nlog"
	"blog/internal/repository"

	"gorm.io/gorm"
)

// GroupService manages groups. Groups are only created through the admin control plane.
type GroupService interface {
	Create(ctx context.Context, form GroupForm) (*entity.Group, error)
	List(ctx context.Context) ([]entity.Group, error)
}

type groupService struct {
	groupRepository repository.GroupRepository
	logger          nlog.Logger
}

func NewGroupService(groupRepo repository.GroupRepository, logger nlog.Logger) GroupService {
	return &groupService{groupRepository: groupRepo, logger: logger}
}

func (g *groupService) Logf(format string, v ...any) {
	g.logger.Logf(format, v...)
}

func (g *groupService) Create(ctx context.Context, form GroupForm) (*entity.Group, error) {
	form.normalize()
	if fields := validateForm(&form); fields != nil {
		return nil, Invalid(fields)
	}

	group := &entity.Group{Title: form.Title, Slug: form.Slug, Description: form.Description}
	if err := g.groupRepository.Create(ctx, group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, New(ErrDuplicate, "a group with this slug already exists")
		}
		return nil, Wrap(ErrInternal, "could not create group", err)
	}
	g.Logf("Group created {id:%d, slug:%s}", group.ID, group.Slug)
	return group, nil
}

func (g *groupService) List(ctx context.Context) ([]entity.Group, error) {
	groups, err := g.groupRepository.List(ctx)
	if err != nil {
		return nil, Wrap(ErrInternal, "could not list groups", err)
	}
	return groups, nil
}
