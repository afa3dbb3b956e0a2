package service

import (
	"errors"

	"blogr/internal/config"
	"blogr/internal/repository"
	"blogr/internal/storage"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSlugTaken          = errors.New("url is already taken")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidPhoto       = errors.New("photo must be a JPEG, PNG or GIF image")
	ErrPhotoTooLarge      = errors.New("photo is too large")
)

const MinPasswordLength = 6

type Service struct {
	User  UserService
	Post  PostService
	Auth  AuthService
	Stats StatsService
}

func NewService(rep *repository.Repository, cfg *config.Config, store storage.Storage) *Service {
	return &Service{
		User:  NewUserService(rep.User, store, storage.NewImageProcessor(cfg.Media.MaxPhotoSize), cfg),
		Post:  NewPostService(rep.Post),
		Auth:  NewAuthService(rep.User),
		Stats: NewStatsService(rep.Tables),
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
