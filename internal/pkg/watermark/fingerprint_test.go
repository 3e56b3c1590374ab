package watermark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterministic(t *testing.T) {
	id := Identity{UserID: 7, Email: "a@x.com", ProductSlug: "ansiedade-sob-controle"}
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, Fingerprint(id, at), Fingerprint(id, at))
}

func TestFingerprintShape(t *testing.T) {
	fp := Fingerprint(Identity{UserID: 7, Email: "a@x.com", ProductSlug: "s"}, time.Now())
	require.Len(t, fp, 10)
	for _, r := range fp {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			t.Fatalf("fingerprint %q contains non-uppercase-hex rune %q", fp, r)
		}
	}
}

func TestFingerprintVariesPerInput(t *testing.T) {
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	base := Identity{UserID: 7, Email: "a@x.com", ProductSlug: "ansiedade-sob-controle"}
	fp := Fingerprint(base, at)

	otherUser := base
	otherUser.UserID = 8
	assert.NotEqual(t, fp, Fingerprint(otherUser, at))

	otherEmail := base
	otherEmail.Email = "b@x.com"
	assert.NotEqual(t, fp, Fingerprint(otherEmail, at))

	otherSlug := base
	otherSlug.ProductSlug = "outro-produto"
	assert.NotEqual(t, fp, Fingerprint(otherSlug, at))

	// Same buyer, one millisecond later: a different download instant
	// yields a different fingerprint.
	assert.NotEqual(t, fp, Fingerprint(base, at.Add(time.Millisecond)))
}

func TestFingerprintStableWithinSameMillisecond(t *testing.T) {
	at := time.Date(2025, 3, 10, 12, 0, 0, 500_000_000, time.UTC)
	id := Identity{UserID: 7, Email: "a@x.com", ProductSlug: "s"}

	// Sub-millisecond precision does not leak into the seed.
	assert.Equal(t, Fingerprint(id, at), Fingerprint(id, at.Add(200*time.Microsecond)))
}

func TestBuildLayersCarryIdentity(t *testing.T) {
	id := Identity{UserID: 42, Email: "ana@x.com", ProductSlug: "ansiedade-sob-controle"}
	at := time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)
	fp := Fingerprint(id, at)

	layers := buildLayers(id, at, fp)
	require.Len(t, layers, 5)

	header := layers[2]
	assert.Contains(t, header.text, "ana@x.com")
	assert.Contains(t, header.text, "ID 42")
	assert.Contains(t, header.text, "10/03/2025 15:04:05")
	assert.Contains(t, header.desc, "pos:tc")

	ghost := layers[3]
	assert.Contains(t, ghost.text, fp)
	assert.Contains(t, ghost.desc, "rot:28")

	footer := layers[4]
	assert.Contains(t, footer.text, "Cópia licenciada")
	assert.Contains(t, footer.text, fp)
	assert.Contains(t, footer.desc, "pos:bc")

	// Both diagonal tiling passes, one per diagonal.
	assert.Contains(t, layers[0].desc, "d:1")
	assert.Contains(t, layers[1].desc, "d:2")
}
