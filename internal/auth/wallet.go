// Package auth verifies wallet ownership through ed25519 signatures. The
// wallet address doubles as the base58-encoded public key, so verification
// needs no key registry.
package auth

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"smartMatchApp/internal/domain/model"
)

// Header names the transport layer reads credentials from.
const (
	HeaderWalletAddress = "X-Wallet-Address"
	HeaderSignature     = "X-Wallet-Signature"
	HeaderMessage       = "X-Message"
)

// VerifySignature checks that signature (base58) was produced over message by
// the private key belonging to wallet (base58-encoded ed25519 public key).
func VerifySignature(wallet, signature, message string) error {
	pub, err := base58.Decode(wallet)
	if err != nil {
		return fmt.Errorf("decode wallet address: %w: %w", err, model.ErrUnauthorized)
	}
	if len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("wallet address is not a valid public key: %w", model.ErrUnauthorized)
	}

	sig, err := base58.Decode(signature)
	if err != nil {
		return fmt.Errorf("decode signature: %w: %w", err, model.ErrUnauthorized)
	}

	if !ed25519.Verify(ed25519.PublicKey(pub), []byte(message), sig) {
		return fmt.Errorf("signature does not match wallet: %w", model.ErrUnauthorized)
	}
	return nil
}

// Authenticate validates the credential triple from request headers and
// returns the proven wallet address. Empty fields or a bad signature yield
// model.ErrUnauthorized.
func Authenticate(wallet, signature, message string) (string, error) {
	if wallet == "" || signature == "" || message == "" {
		return "", fmt.Errorf("missing authentication headers: %w", model.ErrUnauthorized)
	}
	if err := VerifySignature(wallet, signature, message); err != nil {
		return "", err
	}
	return wallet, nil
}

// RequireOwner ensures the authenticated wallet is acting on its own
// resources. A mismatch yields model.ErrForbidden.
func RequireOwner(resourceWallet, authenticatedWallet string) error {
	if resourceWallet != authenticatedWallet {
		return fmt.Errorf("wallet %s cannot act for %s: %w", authenticatedWallet, resourceWallet, model.ErrForbidden)
	}
	return nil
}
