package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"blogr/internal/config"
	"blogr/internal/models"
	"blogr/internal/repository"
	"blogr/internal/storage"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	UpdateProfile(ctx context.Context, user *models.User, form models.ProfileForm) (*models.User, error)
}

type userService struct {
	userRepo  repository.UserRepository
	storage   storage.Storage
	processor *storage.ImageProcessor
	maxUpload int64
	cost      int
}

func NewUserService(userRepo repository.UserRepository, store storage.Storage, processor *storage.ImageProcessor, cfg *config.Config) UserService {
	return &userService{
		userRepo:  userRepo,
		storage:   store,
		processor: processor,
		maxUpload: cfg.Media.MaxUploadSize,
		cost:      bcrypt.DefaultCost,
	}
}

// UpdateProfile applies the form to a copy of user and returns the stored
// result. An empty password keeps the current one. A new photo replaces the
// old file, which is removed once the row is updated.
func (s *userService) UpdateProfile(ctx context.Context, user *models.User, form models.ProfileForm) (*models.User, error) {
	if form.Password != "" && utf8.RuneCountInString(form.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	updated := *user
	updated.Username = form.Username

	if form.Password != "" {
		hash, err := hashPassword(form.Password, s.cost)
		if err != nil {
			return nil, err
		}
		updated.Password = hash
	}

	if form.Photo != nil {
		ref, err := s.savePhoto(ctx, form.Photo)
		if err != nil {
			return nil, err
		}
		updated.Photo = ref
	}

	if err := s.userRepo.UpdateUser(ctx, &updated); err != nil {
		if updated.Photo != user.Photo {
			s.removePhoto(ctx, updated.Photo)
		}
		return nil, mapNotFound(err)
	}

	if updated.Photo != user.Photo {
		s.removePhoto(ctx, user.Photo)
	}

	return &updated, nil
}

func (s *userService) savePhoto(ctx context.Context, upload *models.PhotoUpload) (string, error) {
	if s.maxUpload > 0 && upload.Size > s.maxUpload {
		return "", ErrPhotoTooLarge
	}

	reader := upload.File
	if s.maxUpload > 0 {
		reader = io.LimitReader(upload.File, s.maxUpload+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if s.maxUpload > 0 && int64(len(data)) > s.maxUpload {
		return "", ErrPhotoTooLarge
	}

	processed, err := s.processor.Process(data, upload.Filename)
	if errors.Is(err, storage.ErrUnsupportedImage) {
		return "", ErrInvalidPhoto
	}
	if err != nil {
		return "", err
	}

	ref, err := s.storage.SavePhoto(ctx, storage.UniqueName(processed.Filename), processed.Data, processed.ContentType)
	if err != nil {
		return "", fmt.Errorf("save photo: %w", err)
	}
	return ref, nil
}

func (s *userService) removePhoto(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.storage.DeletePhoto(ctx, ref); err != nil {
		log.Warn().Err(err).Str("photo", ref).Msg("failed to remove photo")
	}
}
