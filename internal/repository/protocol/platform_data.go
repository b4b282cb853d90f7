package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/njprem/DiceArena_BackEnd/internal/repository/ports"
)

const createUpdatePlatformDataMutation = `
mutation CreateUpdatePlatformDataTransaction($profile: String!, $authority: String!, $platformData: PlatformDataInput!) {
  createUpdatePlatformDataTransaction(profile: $profile, authority: $authority, platformData: $platformData) {
    transaction
    blockhash
    lastValidBlockHeight
  }
}`

const sendBulkTransactionsMutation = `
mutation SendBulkTransactions($txs: [Bytes!]!, $blockhash: String!, $lastValidBlockHeight: Int!) {
  sendBulkTransactions(txs: $txs, blockhash: $blockhash, lastValidBlockHeight: $lastValidBlockHeight) {
    signature
    status
    error
  }
}`

func (c *Client) CreateUpdatePlatformDataTransaction(ctx context.Context, update ports.PlatformDataUpdate) (*ports.Transaction, error) {
	variables := map[string]any{
		"profile":   update.Profile,
		"authority": update.Authority,
		"platformData": map[string]any{
			"addXp": update.AddXP.String(),
		},
	}

	var data struct {
		Tx *ports.Transaction `json:"createUpdatePlatformDataTransaction"`
	}
	if err := c.do(ctx, "createUpdatePlatformDataTransaction", createUpdatePlatformDataMutation, variables, &data); err != nil {
		return nil, err
	}
	if data.Tx == nil || data.Tx.Message == "" {
		return nil, errors.New("protocol: createUpdatePlatformDataTransaction returned no transaction")
	}
	return data.Tx, nil
}

// SendTransaction signs the transaction as the admin and submits the
// wire-encoded transaction. The raw sendBulkTransactions result is
// returned unchanged.
func (c *Client) SendTransaction(ctx context.Context, tx *ports.Transaction, signer ports.Signer) (json.RawMessage, error) {
	if tx == nil {
		return nil, errors.New("protocol: transaction is required")
	}
	signed, err := SignTransaction(tx.Message, signer)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{
		"txs":                  []string{signed},
		"blockhash":            tx.Blockhash,
		"lastValidBlockHeight": tx.LastValidBlockHeight,
	}

	var data struct {
		Result json.RawMessage `json:"sendBulkTransactions"`
	}
	if err := c.do(ctx, "sendBulkTransactions", sendBulkTransactionsMutation, variables, &data); err != nil {
		return nil, err
	}
	return data.Result, nil
}

// SignTransaction adds the signer's signature to a base58 transaction and
// returns the base58 wire transaction. The input may be a bare legacy or v0
// message, or a serialized transaction with empty signature slots. Only the
// message bytes are signed. Every other required signature must already be
// present.
func SignTransaction(encoded string, signer ports.Signer) (string, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return "", fmt.Errorf("protocol: transaction is not base58: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("protocol: transaction message is empty")
	}
	tx, err := decodeTransaction(raw)
	if err != nil {
		return "", err
	}

	pub, err := base58.Decode(signer.PublicKey())
	if err != nil {
		return "", fmt.Errorf("protocol: signer public key is not base58: %w", err)
	}
	slot := -1
	for i := 0; i < tx.required; i++ {
		if bytes.Equal(tx.accounts[i], pub) {
			slot = i
			break
		}
	}
	if slot < 0 {
		return "", fmt.Errorf("protocol: %s is not a required signer of this transaction", signer.PublicKey())
	}
	tx.signatures[slot] = signer.Sign(tx.message)

	missing := 0
	for _, sig := range tx.signatures {
		if isEmptySignature(sig) {
			missing++
		}
	}
	if missing > 0 {
		return "", fmt.Errorf("protocol: transaction requires %d signatures, %d still missing", tx.required, missing)
	}
	return base58.Encode(tx.encode()), nil
}

func isEmptySignature(sig []byte) bool {
	for _, b := range sig {
		if b != 0 {
			return false
		}
	}
	return true
}
