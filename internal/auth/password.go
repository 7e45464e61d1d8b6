package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// MinIterations is the lowest PBKDF2 work factor accepted for new hashes.
	MinIterations = 100000

	hashScheme = "pbkdf2:sha256"
	saltBytes  = 16
	keyBytes   = 32
)

var (
	// ErrInvalidCredentials covers both an unknown user and a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrMalformedHash = errors.New("malformed password hash")
)

// HashPassword derives a salted PBKDF2-SHA256 hash in the form
// "pbkdf2:sha256:<iterations>$<salt hex>$<digest hex>".
func HashPassword(password string, iterations int) (string, error) {
	if iterations < MinIterations {
		iterations = MinIterations
	}

	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	digest := pbkdf2.Key([]byte(password), []byte(saltHex), iterations, keyBytes, sha256.New)
	return fmt.Sprintf("%s:%d$%s$%s", hashScheme, iterations, saltHex, hex.EncodeToString(digest)), nil
}

// VerifyPassword reports whether password matches the stored hash. The
// iteration count recorded in the hash is used, so older hashes keep working
// after the default work factor is raised.
func VerifyPassword(stored, password string) (bool, error) {
	iterations, salt, want, err := parseHash(stored)
	if err != nil {
		return false, err
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func parseHash(stored string) (int, string, []byte, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return 0, "", nil, ErrMalformedHash
	}

	method := parts[0]
	if !strings.HasPrefix(method, hashScheme+":") {
		return 0, "", nil, ErrMalformedHash
	}
	iterations, err := strconv.Atoi(strings.TrimPrefix(method, hashScheme+":"))
	if err != nil || iterations <= 0 {
		return 0, "", nil, ErrMalformedHash
	}

	digest, err := hex.DecodeString(parts[2])
	if err != nil || len(digest) == 0 || parts[1] == "" {
		return 0, "", nil, ErrMalformedHash
	}
	return iterations, parts[1], digest, nil
}
