package ports

import (
	"context"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
)

type ClaimLedger interface {
	Record(ctx context.Context, record domain.XPClaimRecord) error
	ListByProfile(ctx context.Context, profileAddress string, limit, offset int) ([]domain.XPClaimRecord, error)
}
