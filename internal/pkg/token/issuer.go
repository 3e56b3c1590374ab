package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"github.com/serenadigital/serena/app/models"
)

// TTL is the credential-setup token lifetime. The expiry instant itself
// is already invalid.
const TTL = 30 * time.Minute

const rawTokenBytes = 32

// ErrTokenInvalid covers not-found, already-used and expired tokens.
// Callers must not distinguish between the three (token enumeration).
var ErrTokenInvalid = errors.New("token: invalid or expired")

// Repository persists setup tokens. ConsumeAndSetPassword must apply
// the used_at transition and the password write atomically.
type Repository interface {
	CreateToken(t *models.PasswordSetupToken) error
	FindByHash(tokenHash string) (*models.PasswordSetupToken, error)
	ConsumeAndSetPassword(tokenHash, passwordHash string, now time.Time) error
}

// Issuer mints and consumes one-time credential-setup tokens. The raw
// token value is returned to the caller once and never stored or logged;
// only its sha256 lands in the database.
type Issuer struct {
	repo Repository
	now  func() time.Time
}

// NewIssuer creates an issuer on the given repository.
func NewIssuer(repo Repository) *Issuer {
	return &Issuer{repo: repo, now: time.Now}
}

// HashToken is the one-way form under which tokens are stored.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Issue creates a fresh token for the user and returns its raw value.
// Previously issued unexpired tokens stay valid; each is independently
// consumable until used or expired.
func (i *Issuer) Issue(userID uint) (string, error) {
	b := make([]byte, rawTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	raw := base64.RawURLEncoding.EncodeToString(b)

	record := &models.PasswordSetupToken{
		UserID:    userID,
		TokenHash: HashToken(raw),
		ExpiresAt: i.now().Add(TTL),
	}
	if err := i.repo.CreateToken(record); err != nil {
		return "", err
	}
	return raw, nil
}

// Peek resolves a raw token to its record without consuming it, for
// pre-validating the definir-senha form. Returns ErrTokenInvalid for
// anything that could not be consumed right now.
func (i *Issuer) Peek(raw string) (*models.PasswordSetupToken, error) {
	t, err := i.repo.FindByHash(HashToken(raw))
	if err != nil {
		return nil, err
	}
	if !t.IsUsable(i.now()) {
		return nil, ErrTokenInvalid
	}
	return t, nil
}

// Consume redeems a raw token and sets the user's password. The token
// mark and the password write commit together or not at all; a
// concurrent redeem of the same token fails for the loser.
func (i *Issuer) Consume(raw, newPassword string) error {
	passwordHash, err := models.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return i.repo.ConsumeAndSetPassword(HashToken(raw), passwordHash, i.now())
}
