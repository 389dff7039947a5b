package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/mr-tron/base58"

	"smartMatchApp/internal/domain/model"
)

func signedHeaders(t *testing.T, message string) (wallet, signature string) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	sig := ed25519.Sign(priv, []byte(message))
	return base58.Encode(pub), base58.Encode(sig)
}

func TestAuthenticateValidSignature(t *testing.T) {
	const message = "Sign in to Smart Money"
	wallet, sig := signedHeaders(t, message)

	got, err := Authenticate(wallet, sig, message)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got != wallet {
		t.Errorf("authenticated wallet = %s, want %s", got, wallet)
	}
}

func TestAuthenticateRejectsTamperedMessage(t *testing.T) {
	wallet, sig := signedHeaders(t, "original message")

	_, err := Authenticate(wallet, sig, "different message")
	if !errors.Is(err, model.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestAuthenticateRejectsWrongWallet(t *testing.T) {
	const message = "hello"
	_, sig := signedHeaders(t, message)
	otherWallet, _ := signedHeaders(t, message)

	_, err := Authenticate(otherWallet, sig, message)
	if !errors.Is(err, model.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestAuthenticateMissingHeaders(t *testing.T) {
	cases := []struct {
		name                 string
		wallet, sig, message string
	}{
		{"no wallet", "", "sig", "msg"},
		{"no signature", "wallet", "", "msg"},
		{"no message", "wallet", "sig", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Authenticate(tc.wallet, tc.sig, tc.message); !errors.Is(err, model.ErrUnauthorized) {
				t.Fatalf("err = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestVerifySignatureRejectsMalformedInputs(t *testing.T) {
	if err := VerifySignature("not-base58-0OIl", "sig", "msg"); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("malformed wallet: err = %v", err)
	}
	wallet, _ := signedHeaders(t, "msg")
	if err := VerifySignature(wallet, "not-base58-0OIl", "msg"); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("malformed signature: err = %v", err)
	}
	if err := VerifySignature(base58.Encode([]byte("short")), "sig", "msg"); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("short key: err = %v", err)
	}
}

func TestRequireOwner(t *testing.T) {
	if err := RequireOwner("wallet-a", "wallet-a"); err != nil {
		t.Fatalf("same wallet: %v", err)
	}
	if err := RequireOwner("wallet-a", "wallet-b"); !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}
