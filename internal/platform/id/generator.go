package id

import (
	"github.com/google/uuid"
)

const maxExternalIDLength = 64

// Generator creates opaque IDs used to correlate requests and log lines.
type Generator interface {
	NewID() string
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Accept reports whether a caller-supplied ID can be echoed back verbatim:
// 1..64 characters of [A-Za-z0-9._-].
func Accept(raw string) bool {
	if raw == "" || len(raw) > maxExternalIDLength {
		return false
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
