package password

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
)

// Cost is the bcrypt cost used by Hash. Tests lower it.
var Cost = DefaultCost

// Hash hashes a password using bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

var (
	decoyMu     sync.Mutex
	decoyHashes = make(map[int][]byte)
)

// VerifyAbsent does the bcrypt work of Verify for a username that does not
// exist, so both login failures take the same time.
func VerifyAbsent(password string) {
	_ = bcrypt.CompareHashAndPassword(decoyHash(Cost), []byte(password))
}

// decoyHash returns a hash of a fixed secret at cost, generated once per cost
func decoyHash(cost int) []byte {
	decoyMu.Lock()
	defer decoyMu.Unlock()

	if h, ok := decoyHashes[cost]; ok {
		return h
	}
	h, err := bcrypt.GenerateFromPassword([]byte("no such credential"), cost)
	if err != nil {
		return nil
	}
	decoyHashes[cost] = h
	return h
}

// HashToken hashes a token using SHA256 (for refresh tokens)
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// MinLength is the shortest accepted password
const MinLength = 6

// ValidatePassword checks if password meets requirements
func ValidatePassword(password string) bool {
	return len(password) >= MinLength
}
