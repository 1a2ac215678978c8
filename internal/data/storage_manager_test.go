package data

import (
	"context"
	"testing"
	"time"

	"blog/internal/entity"
	"blog/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageManagerWiresRepositories(t *testing.T) {
	db, err := repository.OpenDatabase("sqlite", repository.InMemoryDSN(uuid.NewString()), false)
	require.NoError(t, err)

	s, err := NewStorageManager(db)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	user := &entity.User{Username: "leo"}
	require.NoError(t, s.GetUserRepository().Create(ctx, user, "hash"))
	require.NoError(t, s.GetPostRepository().Create(ctx, &entity.Post{Text: "hello", AuthorID: user.ID}))

	total, err := s.GetPostRepository().Count(ctx, repository.PostFilter{AuthorID: user.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	groups, err := s.GetGroupRepository().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)

	comments, err := s.GetCommentRepository().ListByPost(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, comments)

	n, err := s.GetFollowRepository().Count(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	s.GetPageCache().Set("k", []byte("v"), time.Minute)
	assert.Equal(t, 1, s.GetPageCache().Len())
}
