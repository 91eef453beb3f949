package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// defaultSecretBytes gives 256 bits of entropy per session secret, enough
// that bcrypt cost is the only knob that matters for the stored hash.
const defaultSecretBytes = 32

// RandomTokenGenerator mints the secret half of session bearer tokens. The
// output is URL-safe base64 so tokens survive query strings and headers
// unescaped.
type RandomTokenGenerator struct {
	Size int
}

func (g RandomTokenGenerator) NewToken() (string, error) {
	size := g.Size
	if size <= 0 {
		size = defaultSecretBytes
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("security: session secret entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
