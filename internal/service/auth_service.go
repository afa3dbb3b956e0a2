package service

import (
	"context"
	"errors"
	"fmt"

	"blogr/internal/models"
	"blogr/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against on unknown emails so a failed login costs
// the same bcrypt work whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("blogr-no-such-user"), bcrypt.DefaultCost)

type AuthService interface {
	Register(ctx context.Context, form models.RegisterForm) (*models.User, error)
	Login(ctx context.Context, form models.LoginForm) (*models.User, error)
	CurrentUser(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	cost     int
	compare  func(hash, password []byte) error
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{
		userRepo: userRepo,
		cost:     bcrypt.DefaultCost,
		compare:  bcrypt.CompareHashAndPassword,
	}
}

func (s *authService) Register(ctx context.Context, form models.RegisterForm) (*models.User, error) {
	existing, err := s.userRepo.GetUserByEmail(ctx, form.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := hashPassword(form.Password, s.cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: hash,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login never says which half of the credentials was wrong.
func (s *authService) Login(ctx context.Context, form models.LoginForm) (*models.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, form.Email)
	if errors.Is(err, repository.ErrNotFound) {
		_ = s.compare(dummyHash, []byte(form.Password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.compare([]byte(user.Password), []byte(form.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return user, nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
