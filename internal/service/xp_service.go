package service

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
	"github.com/njprem/DiceArena_BackEnd/internal/metrics"
	"github.com/njprem/DiceArena_BackEnd/internal/repository/ports"
)

// XPService grants XP by asking the protocol service for a platform-data
// update transaction and submitting it signed by the admin identity.
type XPService struct {
	protocol ports.PlatformDataClient
	admin    ports.Signer
	ledger   ports.ClaimLedger
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

type XPServiceConfig struct {
	// Ledger is optional.
	Ledger  ports.ClaimLedger
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

func NewXPService(protocol ports.PlatformDataClient, admin ports.Signer, cfg XPServiceConfig) *XPService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XPService{
		protocol: protocol,
		admin:    admin,
		ledger:   cfg.Ledger,
		metrics:  cfg.Metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Claim is not idempotent: each successful call grants XP again.
func (s *XPService) Claim(ctx context.Context, in domain.XPClaimInput) (*domain.XPClaimResult, error) {
	profile := strings.TrimSpace(in.ProfileAddress)
	if profile == "" {
		s.metrics.XPClaim("invalid")
		return nil, invalidRequest("profileAddress is required")
	}
	if err := validateXPAmount(in.XPAmount); err != nil {
		s.metrics.XPClaim("invalid")
		return nil, err
	}

	tx, err := s.protocol.CreateUpdatePlatformDataTransaction(ctx, ports.PlatformDataUpdate{
		Profile:   profile,
		AddXP:     in.XPAmount,
		Authority: s.admin.PublicKey(),
	})
	if err != nil {
		return nil, s.fail(ctx, profile, in.XPAmount, upstream("failed to build xp transaction", err))
	}

	result, err := s.protocol.SendTransaction(ctx, tx, s.admin)
	if err != nil {
		return nil, s.fail(ctx, profile, in.XPAmount, upstream("failed to submit xp transaction", err))
	}

	s.metrics.XPClaim("ok")
	s.logger.Info("xp granted", zap.String("profile", profile), zap.String("xp_amount", in.XPAmount.String()))
	s.record(ctx, domain.XPClaimRecord{
		ProfileAddress:    profile,
		XPAmount:          in.XPAmount.String(),
		Status:            domain.XPClaimStatusSubmitted,
		TransactionResult: result,
	})

	return &domain.XPClaimResult{TransactionResult: result, XPAmount: in.XPAmount}, nil
}

// History lists ledger entries for a profile, newest first.
func (s *XPService) History(ctx context.Context, profile string, limit, offset int) ([]domain.XPClaimRecord, error) {
	if s.ledger == nil {
		return nil, notFound("claim history is not enabled")
	}
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return nil, invalidRequest("profile address is required")
	}
	limit, offset = normalizeClaimsPagination(limit, offset)
	records, err := s.ledger.ListByProfile(ctx, profile, limit, offset)
	if err != nil {
		return nil, upstream("failed to load claim history", err)
	}
	if records == nil {
		records = []domain.XPClaimRecord{}
	}
	return records, nil
}

func (s *XPService) HistoryEnabled() bool { return s.ledger != nil }

func (s *XPService) fail(ctx context.Context, profile string, amount json.Number, err error) error {
	s.metrics.XPClaim("error")
	s.logger.Error("xp claim failed", zap.String("profile", profile), zap.String("xp_amount", amount.String()), zap.Error(err))
	msg := err.Error()
	s.record(ctx, domain.XPClaimRecord{
		ProfileAddress: profile,
		XPAmount:       amount.String(),
		Status:         domain.XPClaimStatusFailed,
		Error:          &msg,
	})
	return err
}

func (s *XPService) record(ctx context.Context, rec domain.XPClaimRecord) {
	if s.ledger == nil {
		return
	}
	rec.ID = uuid.New()
	rec.CreatedAt = s.now().UTC()
	if err := s.ledger.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("record xp claim failed", zap.String("profile", rec.ProfileAddress), zap.Error(err))
	}
}

func validateXPAmount(amount json.Number) error {
	raw := strings.TrimSpace(amount.String())
	if raw == "" {
		return invalidRequest("xpAmount is required")
	}
	if !json.Valid([]byte(raw)) {
		return invalidRequest("xpAmount must be a number")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return invalidRequest("xpAmount must be a number")
	}
	if value <= 0 {
		return invalidRequest("xpAmount must be greater than 0")
	}
	return nil
}

func normalizeClaimsPagination(limit, offset int) (int, int) {
	const (
		defaultLimit = 20
		maxLimit     = 100
	)

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
