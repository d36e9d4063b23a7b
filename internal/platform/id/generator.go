package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs suitable for session cookies.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	prefix string
}

func NewRandomGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: prefix}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return g.prefix + hex.EncodeToString(buf), nil
}
