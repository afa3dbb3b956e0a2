package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogr/internal/models"
	"blogr/internal/repository"
)

type PostService interface {
	List(ctx context.Context) ([]models.Post, error)
	Search(ctx context.Context, query string) ([]models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetByID(ctx context.Context, postID int64) (*models.Post, error)
	Create(ctx context.Context, author *models.User, form models.PostForm) (*models.Post, error)
	Update(ctx context.Context, post *models.Post, form models.PostUpdateForm) error
	Delete(ctx context.Context, post *models.Post) error
}

type postService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

// NormalizeSlug turns spaces into hyphens. Nothing else is rewritten.
func NormalizeSlug(slug string) string {
	return strings.ReplaceAll(slug, " ", "-")
}

func (p *postService) List(ctx context.Context) ([]models.Post, error) {
	return p.postRepo.GetAll(ctx)
}

func (p *postService) Search(ctx context.Context, query string) ([]models.Post, error) {
	if query == "" {
		return p.postRepo.GetAll(ctx)
	}
	return p.postRepo.SearchByTitle(ctx, query)
}

func (p *postService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := p.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return post, nil
}

func (p *postService) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return post, nil
}

func (p *postService) Create(ctx context.Context, author *models.User, form models.PostForm) (*models.Post, error) {
	slug := NormalizeSlug(form.URL)

	exists, err := p.postRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("check url: %w", err)
	}
	if exists {
		return nil, ErrSlugTaken
	}

	post := &models.Post{
		Author:     author.ID,
		URL:        slug,
		Title:      form.Title,
		Info:       form.Info,
		Content:    form.Content,
		AuthorName: author.Username,
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

// Update changes title, info and content. The slug is immutable.
func (p *postService) Update(ctx context.Context, post *models.Post, form models.PostUpdateForm) error {
	post.Title = form.Title
	post.Info = form.Info
	post.Content = form.Content

	return mapNotFound(p.postRepo.Update(ctx, post))
}

// Delete removes exactly the given, already loaded post.
func (p *postService) Delete(ctx context.Context, post *models.Post) error {
	return mapNotFound(p.postRepo.Delete(ctx, post))
}
