package service

import (
	"context"
	"testing"

	"blogr/internal/models"
	"blogr/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSlug(t *testing.T) {
	assert.Equal(t, "hello-world", NormalizeSlug("hello world"))
	assert.Equal(t, "Hello--World!", NormalizeSlug("Hello  World!"))
	assert.Equal(t, "already-fine", NormalizeSlug("already-fine"))
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()
	author := &models.User{ID: 3, Username: "ana"}
	form := models.PostForm{URL: "hello world", Title: "Hello", Info: "i", Content: "<p>c</p>"}

	t.Run("success", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("SlugExists", mock.Anything, "hello-world").Return(false, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
			return p.Author == 3 && p.URL == "hello-world" && p.Title == "Hello"
		})).Return(nil)

		post, err := NewPostService(repo).Create(ctx, author, form)
		require.NoError(t, err)
		assert.Equal(t, "ana", post.AuthorName)
		repo.AssertExpectations(t)
	})

	t.Run("slug taken", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("SlugExists", mock.Anything, "hello-world").Return(true, nil)

		_, err := NewPostService(repo).Create(ctx, author, form)
		assert.ErrorIs(t, err, ErrSlugTaken)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("slug taken concurrently", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("SlugExists", mock.Anything, "hello-world").Return(false, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

		_, err := NewPostService(repo).Create(ctx, author, form)
		assert.ErrorIs(t, err, ErrSlugTaken)
	})
}

func TestPostService_Search(t *testing.T) {
	ctx := context.Background()
	all := []models.Post{{ID: 1, Title: "Hello World"}, {ID: 2, Title: "Other"}}

	repo := new(MockPostRepository)
	repo.On("GetAll", mock.Anything).Return(all, nil)
	repo.On("SearchByTitle", mock.Anything, "hello").Return(all[:1], nil)
	svc := NewPostService(repo)

	posts, err := svc.Search(ctx, "hello")
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestPostService_Lookups(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPostRepository)
	repo.On("GetBySlug", mock.Anything, "nope").Return(nil, repository.ErrNotFound)
	repo.On("GetByID", mock.Anything, int64(8)).Return(&models.Post{ID: 8}, nil)
	svc := NewPostService(repo)

	_, err := svc.GetBySlug(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	post, err := svc.GetByID(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(8), post.ID)
}

func TestPostService_UpdateKeepsSlug(t *testing.T) {
	post := &models.Post{ID: 5, URL: "fixed", Title: "Old"}
	repo := new(MockPostRepository)
	repo.On("Update", mock.Anything, post).Return(nil)

	err := NewPostService(repo).Update(context.Background(), post, models.PostUpdateForm{Title: "New", Info: "i", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", post.URL)
	assert.Equal(t, "New", post.Title)
	repo.AssertExpectations(t)
}

func TestPostService_Delete(t *testing.T) {
	post := &models.Post{ID: 5}
	repo := new(MockPostRepository)
	repo.On("Delete", mock.Anything, post).Return(nil).Once()
	repo.On("Delete", mock.Anything, &models.Post{ID: 6}).Return(repository.ErrNotFound)
	svc := NewPostService(repo)

	assert.NoError(t, svc.Delete(context.Background(), post))
	assert.ErrorIs(t, svc.Delete(context.Background(), &models.Post{ID: 6}), ErrNotFound)
	repo.AssertExpectations(t)
}

func TestStatsService_Counts(t *testing.T) {
	repo := new(MockTablesRepository)
	repo.On("CountRows", mock.Anything).Return(&models.Stats{Users: 1, Posts: 2}, nil)

	stats, err := NewStatsService(repo).Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Posts)
}
