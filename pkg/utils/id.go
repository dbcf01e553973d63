package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// GenerateBoardID generates a unique board document id.
func GenerateBoardID() string {
	return uuid.NewString()
}

// GenerateClientID generates a unique id for a connected UI client.
func GenerateClientID() string {
	return GenerateID("client")
}

// GenerateID generates a random ID with prefix
func GenerateID(prefix string) string {
	b := make([]byte, 8)
	rand.Read(b)
	return prefix + "_" + hex.EncodeToString(b)
}
