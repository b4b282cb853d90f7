package ports

import (
	"context"
	"errors"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
)

// ErrTournamentNotFound is returned by FindByID when no document exists.
var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	FindByID(ctx context.Context, id string) (domain.Tournament, error)
	// List orders by createdAt descending and, when filter.Status is set,
	// keeps only documents whose status equals it.
	List(ctx context.Context, filter domain.TournamentListFilter) ([]domain.Tournament, error)
}
