package domain

import "time"

type AuthChallenge struct {
	Wallet         string    `json:"wallet"`
	Message        string    `json:"message"`
	ChallengeToken string    `json:"challengeToken"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

type AccessGrant struct {
	Wallet      string    `json:"wallet"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
