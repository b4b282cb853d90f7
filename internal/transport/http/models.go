package http

import "time"

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"tournament not found"`
}

// ChallengeResponse carries the message a wallet must sign to sign in.
type ChallengeResponse struct {
	Success   bool          `json:"success" example:"true"`
	Challenge ChallengeBody `json:"challenge"`
}

type ChallengeBody struct {
	Wallet         string    `json:"wallet" example:"9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"`
	Message        string    `json:"message"`
	ChallengeToken string    `json:"challengeToken"`
	ExpiresAt      time.Time `json:"expiresAt" example:"2025-05-01T12:05:00Z"`
}

type TokenRequest struct {
	Wallet         string `json:"wallet"`
	ChallengeToken string `json:"challengeToken"`
	Signature      string `json:"signature"`
}

// TokenResponse is returned once a signed challenge is accepted.
type TokenResponse struct {
	Success     bool      `json:"success" example:"true"`
	Wallet      string    `json:"wallet"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt" example:"2025-05-02T00:00:00Z"`
}

type MeResponse struct {
	Success bool   `json:"success" example:"true"`
	Wallet  string `json:"wallet"`
}
