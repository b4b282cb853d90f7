package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mr-tron/base58"

	"github.com/njprem/DiceArena_BackEnd/internal/util"
)

func newTestAuthService() *AuthService {
	return NewAuthService(util.NewJWTManager("test-secret"), AuthServiceConfig{
		AccessTTL:    time.Hour,
		ChallengeTTL: time.Minute,
	})
}

func signChallenge(t *testing.T, kp *util.Keypair, message string) string {
	t.Helper()
	return base58.Encode(kp.Sign([]byte(message)))
}

func TestAuthService_SignInRoundTrip(t *testing.T) {
	svc := newTestAuthService()
	kp, err := util.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}

	challenge, err := svc.Challenge(context.Background(), kp.PublicKey())
	if err != nil {
		t.Fatalf("Challenge returned error: %v", err)
	}
	if challenge.Wallet != kp.PublicKey() || challenge.ChallengeToken == "" {
		t.Fatalf("unexpected challenge: %+v", challenge)
	}

	grant, err := svc.Exchange(context.Background(), kp.PublicKey(), challenge.ChallengeToken, signChallenge(t, kp, challenge.Message))
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	if grant.AccessToken == "" || !grant.ExpiresAt.After(time.Now()) {
		t.Fatalf("unexpected grant: %+v", grant)
	}

	wallet, err := svc.Authenticate(context.Background(), grant.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if wallet != kp.PublicKey() {
		t.Fatalf("expected wallet %s, got %s", kp.PublicKey(), wallet)
	}
}

func TestAuthService_ChallengeRejectsBadWallet(t *testing.T) {
	svc := newTestAuthService()

	for _, wallet := range []string{"", "   ", "not-base58-0OIl", "3yZe7d"} {
		if _, err := svc.Challenge(context.Background(), wallet); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("wallet %q: want ErrInvalidRequest, got %v", wallet, err)
		}
	}
}

func TestAuthService_ExchangeRejections(t *testing.T) {
	svc := newTestAuthService()
	player, _ := util.GenerateKeypair()
	other, _ := util.GenerateKeypair()

	challenge, err := svc.Challenge(context.Background(), player.PublicKey())
	if err != nil {
		t.Fatalf("Challenge returned error: %v", err)
	}

	cases := []struct {
		name      string
		wallet    string
		token     string
		signature string
		want      error
	}{
		{name: "missing fields", wallet: player.PublicKey(), want: ErrInvalidRequest},
		{name: "garbage challenge", wallet: player.PublicKey(), token: "nope", signature: "abc", want: ErrUnauthorized},
		{
			name:      "wrong wallet",
			wallet:    other.PublicKey(),
			token:     challenge.ChallengeToken,
			signature: signChallenge(t, other, challenge.Message),
			want:      ErrUnauthorized,
		},
		{
			name:      "signed by someone else",
			wallet:    player.PublicKey(),
			token:     challenge.ChallengeToken,
			signature: signChallenge(t, other, challenge.Message),
			want:      ErrUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Exchange(context.Background(), tc.wallet, tc.token, tc.signature)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthService_AccessTokenCannotBeUsedAsChallenge(t *testing.T) {
	svc := newTestAuthService()
	kp, _ := util.GenerateKeypair()

	challenge, _ := svc.Challenge(context.Background(), kp.PublicKey())
	grant, err := svc.Exchange(context.Background(), kp.PublicKey(), challenge.ChallengeToken, signChallenge(t, kp, challenge.Message))
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}

	if _, err := svc.Exchange(context.Background(), kp.PublicKey(), grant.AccessToken, signChallenge(t, kp, challenge.Message)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), challenge.ChallengeToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("challenge token must not authenticate, got %v", err)
	}
}
