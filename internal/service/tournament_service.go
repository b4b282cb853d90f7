package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
	"github.com/njprem/DiceArena_BackEnd/internal/metrics"
	"github.com/njprem/DiceArena_BackEnd/internal/repository/ports"
)

const (
	DefaultTournamentLimit = 20
	MaxTournamentLimit     = 100
)

type TournamentService struct {
	repo    ports.TournamentRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewTournamentService(repo ports.TournamentRepository, m *metrics.Metrics, logger *zap.Logger) *TournamentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TournamentService{repo: repo, metrics: m, logger: logger}
}

func (s *TournamentService) Get(ctx context.Context, id string) (domain.Tournament, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		s.metrics.TournamentRead("get", "invalid")
		return nil, invalidRequest("tournament id is required")
	}

	tournament, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrTournamentNotFound) {
			s.metrics.TournamentRead("get", "not_found")
			return nil, notFound("tournament not found")
		}
		s.metrics.TournamentRead("get", "error")
		s.logger.Error("fetch tournament failed", zap.String("tournament_id", id), zap.Error(err))
		return nil, upstream("failed to fetch tournament", err)
	}

	s.metrics.TournamentRead("get", "ok")
	return domain.NewTournament(id, tournament), nil
}

// List returns tournaments newest first. A zero limit means the default.
func (s *TournamentService) List(ctx context.Context, filter domain.TournamentListFilter) ([]domain.Tournament, error) {
	if filter.Limit < 0 {
		s.metrics.TournamentRead("list", "invalid")
		return nil, invalidRequest("limit must be a positive integer")
	}
	filter.Limit = normalizeTournamentLimit(filter.Limit)

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		s.metrics.TournamentRead("list", "error")
		s.logger.Error("list tournaments failed", zap.String("status", filter.Status), zap.Error(err))
		return nil, upstream("failed to fetch tournaments", err)
	}

	if items == nil {
		items = []domain.Tournament{}
	}

	s.metrics.TournamentRead("list", "ok")
	return items, nil
}

func normalizeTournamentLimit(limit int) int {
	if limit == 0 {
		return DefaultTournamentLimit
	}
	if limit > MaxTournamentLimit {
		return MaxTournamentLimit
	}
	return limit
}
