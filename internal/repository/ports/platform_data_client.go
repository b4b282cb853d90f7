package ports

import (
	"context"
	"encoding/json"
)

// Signer is the identity that authorizes and signs protocol transactions.
type Signer interface {
	PublicKey() string
	Sign(message []byte) []byte
}

type PlatformDataUpdate struct {
	Profile   string
	AddXP     json.Number
	Authority string
}

// Transaction is an unsigned transaction built by the protocol service.
type Transaction struct {
	Message              string `json:"transaction"` // base58
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight int64  `json:"lastValidBlockHeight"`
}

type PlatformDataClient interface {
	CreateUpdatePlatformDataTransaction(ctx context.Context, update PlatformDataUpdate) (*Transaction, error)
	SendTransaction(ctx context.Context, tx *Transaction, signer Signer) (json.RawMessage, error)
}
