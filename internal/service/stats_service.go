package service

import (
	"context"

	"blogr/internal/models"
	"blogr/internal/repository"
)

type StatsService interface {
	Counts(ctx context.Context) (*models.Stats, error)
}

type statsService struct {
	tablesRepo repository.TablesRepository
}

func NewStatsService(tablesRepo repository.TablesRepository) StatsService {
	return &statsService{tablesRepo: tablesRepo}
}

func (s *statsService) Counts(ctx context.Context) (*models.Stats, error) {
	return s.tablesRepo.CountRows(ctx)
}
