package repository

import (
	"context"
	"errors"
	"fmt"

	"blogr/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record violates a unique constraint")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID int64) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetAll(ctx context.Context) ([]models.Post, error)
	SearchByTitle(ctx context.Context, query string) ([]models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, post *models.Post) error
}

type TablesRepository interface {
	CountRows(ctx context.Context) (*models.Stats, error)
}

type Repository struct {
	User   UserRepository
	Post   PostRepository
	Tables TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:   NewUserRepository(db),
		Post:   NewPostRepository(db),
		Tables: NewTablesRepository(db),
	}
}

// withTx runs fn in a transaction, committing on success and rolling back
// on any error.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
