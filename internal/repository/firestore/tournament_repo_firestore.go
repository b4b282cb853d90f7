package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
	"github.com/njprem/DiceArena_BackEnd/internal/repository/ports"
)

const DefaultTournamentCollection = "tournaments"

type TournamentRepository struct {
	client     *firestore.Client
	collection string
}

func NewTournamentRepo(client *firestore.Client, collection string) *TournamentRepository {
	if collection == "" {
		collection = DefaultTournamentCollection
	}
	return &TournamentRepository{client: client, collection: collection}
}

func (r *TournamentRepository) FindByID(ctx context.Context, id string) (domain.Tournament, error) {
	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ports.ErrTournamentNotFound
		}
		return nil, fmt.Errorf("get tournament %s: %w", id, err)
	}
	if !snap.Exists() {
		return nil, ports.ErrTournamentNotFound
	}
	return domain.NewTournament(snap.Ref.ID, snap.Data()), nil
}

func (r *TournamentRepository) List(ctx context.Context, filter domain.TournamentListFilter) ([]domain.Tournament, error) {
	query := r.client.Collection(r.collection).OrderBy(domain.TournamentFieldCreatedAt, firestore.Desc)
	if filter.Status != "" {
		query = query.Where(domain.TournamentFieldStatus, "==", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	items := make([]domain.Tournament, 0, len(snaps))
	for _, snap := range snaps {
		items = append(items, domain.NewTournament(snap.Ref.ID, snap.Data()))
	}
	return items, nil
}
