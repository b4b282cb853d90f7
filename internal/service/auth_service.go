package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
	"github.com/njprem/DiceArena_BackEnd/internal/metrics"
	"github.com/njprem/DiceArena_BackEnd/internal/util"
)

// AuthService signs players in with their wallet. The challenge is itself a
// short-lived token, so nothing is stored between the two steps.
type AuthService struct {
	jwt          *util.JWTManager
	accessTTL    time.Duration
	challengeTTL time.Duration
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

type AuthServiceConfig struct {
	AccessTTL    time.Duration
	ChallengeTTL time.Duration
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
}

func NewAuthService(jwt *util.JWTManager, cfg AuthServiceConfig) *AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 12 * time.Hour
	}
	if cfg.ChallengeTTL <= 0 {
		cfg.ChallengeTTL = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &AuthService{
		jwt:          jwt,
		accessTTL:    cfg.AccessTTL,
		challengeTTL: cfg.ChallengeTTL,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
	}
}

func (s *AuthService) Challenge(ctx context.Context, wallet string) (*domain.AuthChallenge, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil, invalidRequest("wallet is required")
	}
	if _, err := util.DecodePublicKey(wallet); err != nil {
		return nil, invalidRequest(err.Error())
	}

	nonce := uuid.NewString()
	token, expiresAt, err := s.jwt.Generate(wallet, util.PurposeChallenge, nonce, s.challengeTTL)
	if err != nil {
		return nil, fmt.Errorf("sign challenge: %w", err)
	}

	return &domain.AuthChallenge{
		Wallet:         wallet,
		Message:        ChallengeMessage(wallet, nonce),
		ChallengeToken: token,
		ExpiresAt:      expiresAt,
	}, nil
}

// Exchange verifies the wallet's signature over the challenge message and
// issues an access token.
func (s *AuthService) Exchange(ctx context.Context, wallet, challengeToken, signature string) (*domain.AccessGrant, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" || strings.TrimSpace(challengeToken) == "" || strings.TrimSpace(signature) == "" {
		return nil, invalidRequest("wallet, challengeToken and signature are required")
	}

	claims, err := s.jwt.Parse(challengeToken, util.PurposeChallenge)
	if err != nil {
		s.metrics.AuthToken("rejected")
		return nil, unauthorized("invalid or expired challenge")
	}
	if claims.Wallet != wallet {
		s.metrics.AuthToken("rejected")
		return nil, unauthorized("challenge was issued to a different wallet")
	}
	if !util.VerifySignature(wallet, []byte(ChallengeMessage(wallet, claims.Nonce)), signature) {
		s.metrics.AuthToken("rejected")
		return nil, unauthorized("signature verification failed")
	}

	token, expiresAt, err := s.jwt.Generate(wallet, util.PurposeAccess, "", s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.metrics.AuthToken("ok")
	s.logger.Info("wallet signed in", zap.String("wallet", wallet))
	return &domain.AccessGrant{Wallet: wallet, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves an access token to its wallet.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := s.jwt.Parse(token, util.PurposeAccess)
	if err != nil {
		return "", unauthorized("invalid or expired token")
	}
	return claims.Wallet, nil
}

// ChallengeMessage is the exact text a wallet signs to sign in.
func ChallengeMessage(wallet, nonce string) string {
	return "Sign in to Dice Arena\nWallet: " + wallet + "\nNonce: " + nonce
}
