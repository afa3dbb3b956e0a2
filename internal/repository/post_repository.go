package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogr/internal/models"

	"github.com/jmoiron/sqlx"
)

const postSelect = `
	SELECT p.id, p.author, p.url, p.title,
	       COALESCE(p.info, '') AS info, COALESCE(p.content, '') AS content,
	       p.created, COALESCE(u.username, '') AS author_name
	FROM posts p
	LEFT JOIN users u ON u.id = p.author`

type PostRepositoryImpl struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := r.db.Rebind(`
		INSERT INTO posts (author, url, title, info, content, created)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	if post.Created.IsZero() {
		post.Created = time.Now().UTC()
	}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query,
			post.Author, post.URL, post.Title, post.Info, post.Content, post.Created,
		).Scan(&post.ID)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create post %s: %w", post.URL, ErrDuplicate)
		}
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	return r.getOne(ctx, r.db.Rebind(postSelect+` WHERE p.id = ?`), postID)
}

func (r *PostRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return r.getOne(ctx, r.db.Rebind(postSelect+` WHERE p.url = ?`), slug)
}

func (r *PostRepositoryImpl) getOne(ctx context.Context, query string, arg any) (*models.Post, error) {
	var post models.Post
	err := r.db.GetContext(ctx, &post, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %v: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// GetAll returns every post, newest first.
func (r *PostRepositoryImpl) GetAll(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.db.SelectContext(ctx, &posts, postSelect+` ORDER BY p.created DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

// SearchByTitle returns posts whose title contains query, ignoring case.
// LIKE wildcards in query match literally.
func (r *PostRepositoryImpl) SearchByTitle(ctx context.Context, query string) ([]models.Post, error) {
	q := r.db.Rebind(postSelect + ` WHERE LOWER(p.title) LIKE LOWER(?) ESCAPE '\' ORDER BY p.created DESC, p.id DESC`)

	posts := []models.Post{}
	err := r.db.SelectContext(ctx, &posts, q, "%"+escapeLike(query)+"%")
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM posts WHERE url = ?`), slug)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}

	return count > 0, nil
}

// Update writes the editable fields: title, info and content.
func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post) error {
	query := r.db.Rebind(`
		UPDATE posts SET
			title = ?,
			info = ?,
			content = ?
		WHERE id = ?
	`)

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query, post.Title, post.Info, post.Content, post.ID)
		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check updated rows: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("post %d: %w", post.ID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	return nil
}

// Delete removes the given, previously loaded post.
func (r *PostRepositoryImpl) Delete(ctx context.Context, post *models.Post) error {
	if post == nil || post.ID == 0 {
		return fmt.Errorf("delete post: %w", ErrNotFound)
	}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM posts WHERE id = ?`), post.ID)
		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check deleted rows: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("post %d: %w", post.ID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
