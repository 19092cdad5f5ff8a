package hash

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const SaltBytes = 16

// Hasher salts a password, digests it with SHA-256 and stretches the digest with bcrypt.
// The digest keeps the bcrypt input under its 72 byte limit whatever the password length.
type Hasher struct {
	Cost int
}

func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{Cost: cost}
}

func NewSalt() (string, error) {
	b := make([]byte, SaltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func digest(salt, password string) []byte {
	sum := sha256.Sum256([]byte(salt + password))
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum[:])
	return out
}

func (h *Hasher) HashPassword(salt, password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword(digest(salt, password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

func (h *Hasher) CheckPassword(hash, salt, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), digest(salt, password)) == nil
}
