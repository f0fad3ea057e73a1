package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

const (
	// TokenPrefix marks every session token handed to a client
	TokenPrefix = "mess_"
)

// GenerateSessionToken creates a new random session token.
// Format: mess_ + Base58(SHA256(random_bytes))
func GenerateSessionToken() (rawToken string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", err
	}

	sum := sha256.Sum256(randomBytes)
	rawToken = TokenPrefix + base58.Encode(sum[:])
	return rawToken, hashToken(rawToken), nil
}

// hashToken is the at-rest form of a token; only hashes reach the database.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// parseToken checks the prefix and base58 body of a client-supplied token.
func parseToken(rawToken string) (string, error) {
	body, ok := strings.CutPrefix(rawToken, TokenPrefix)
	if !ok || body == "" {
		return "", fmt.Errorf("invalid token format")
	}
	decoded, err := base58.Decode(body)
	if err != nil || len(decoded) != sha256.Size {
		return "", fmt.Errorf("invalid token format")
	}
	return hashToken(rawToken), nil
}
