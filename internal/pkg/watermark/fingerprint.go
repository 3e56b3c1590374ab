package watermark

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Identity names whose copy this is. All three fields plus the
// generation instant feed the fingerprint, so the same buyer gets a
// different fingerprint on every download.
type Identity struct {
	UserID      uint
	Email       string
	ProductSlug string
}

// fingerprintLen is the number of hex characters kept from the hash;
// short enough to survive screenshot cropping in the footer line.
const fingerprintLen = 10

// Fingerprint derives the session fingerprint for an identity at a
// generation instant: first 10 hex chars of
// sha256("userID|email|slug|unixMilli"), uppercased. Reproducible only
// when all four inputs are known.
func Fingerprint(id Identity, at time.Time) string {
	seed := fmt.Sprintf("%d|%s|%s|%d", id.UserID, id.Email, id.ProductSlug, at.UnixMilli())
	sum := sha256.Sum256([]byte(seed))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:fingerprintLen])
}
