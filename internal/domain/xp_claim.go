package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type XPClaimStatus string

const (
	XPClaimStatusSubmitted XPClaimStatus = "submitted"
	XPClaimStatusFailed    XPClaimStatus = "failed"
)

type XPClaimInput struct {
	ProfileAddress string
	XPAmount       json.Number
}

type XPClaimResult struct {
	TransactionResult json.RawMessage
	XPAmount          json.Number
}

// XPClaimRecord is one row of the claim ledger.
type XPClaimRecord struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	ProfileAddress    string          `db:"profile_address" json:"profileAddress"`
	XPAmount          string          `db:"xp_amount" json:"xpAmount"`
	Status            XPClaimStatus   `db:"status" json:"status"`
	Error             *string         `db:"error" json:"error,omitempty"`
	TransactionResult json.RawMessage `db:"-" json:"transactionResult,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
}
