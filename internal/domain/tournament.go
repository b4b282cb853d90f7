package domain

// Tournament is a document from the tournaments collection. Beyond the fields
// named below its schema is open, so it is kept as a plain map.
type Tournament map[string]any

const (
	TournamentFieldID         = "id"
	TournamentFieldStatus     = "status"
	TournamentFieldCreatedAt  = "createdAt"
	TournamentFieldDiceRolls  = "diceRolls"
	TournamentFieldMaxPlayers = "maxPlayers"
	TournamentFieldAbilities  = "abilities"
)

// NewTournament merges the document fields with its identifier. The
// identifier always replaces an "id" field stored inside the document.
func NewTournament(id string, fields map[string]any) Tournament {
	t := make(Tournament, len(fields)+1)
	for k, v := range fields {
		t[k] = v
	}
	t[TournamentFieldID] = id
	return t
}

func (t Tournament) ID() string {
	id, _ := t[TournamentFieldID].(string)
	return id
}

func (t Tournament) Status() string {
	status, _ := t[TournamentFieldStatus].(string)
	return status
}

type TournamentListFilter struct {
	Status string
	Limit  int
}
