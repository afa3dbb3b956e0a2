package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogr/internal/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, email, password, COALESCE(photo, '') AS photo`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser inserts the user and sets its generated ID. The password field
// must already hold a hash.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := r.db.Rebind(`
		INSERT INTO users (username, email, password, photo)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query, user.Username, user.Email, user.Password, nullString(user.Photo)).
			Scan(&user.ID)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User

	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

// UpdateUser writes username, password hash and photo reference.
func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {
	query := r.db.Rebind(`
		UPDATE users
		SET username = ?, password = ?, photo = ?
		WHERE id = ?
	`)

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query, user.Username, user.Password, nullString(user.Photo), user.ID)
		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check updated rows: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
