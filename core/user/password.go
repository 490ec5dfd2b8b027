package user

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

// Credentials are stored as "salt$hex(key)": a random hex salt and a
// PBKDF2-SHA256 key derived from it. The parameters must never change
// without a credential migration.
const (
	pwdSaltBytes  = 32
	pwdIterations = 100000
	pwdKeyLen     = sha256.Size
	pwdSeparator  = "$"
)

// MakePassword derives a salted credential string for pwd.
func MakePassword(pwd string) (string, error) {
	salt := make([]byte, pwdSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "generating salt")
	}
	saltHex := hex.EncodeToString(salt)
	key := pbkdf2.Key([]byte(pwd), []byte(saltHex), pwdIterations, pwdKeyLen, sha256.New)
	return saltHex + pwdSeparator + hex.EncodeToString(key), nil
}

// VerifyPassword re-derives the key with the stored salt and compares it
// to the stored hash in constant time. Malformed credentials never panic
// or error; they simply fail verification.
func VerifyPassword(pwd, credential string) bool {
	parts := strings.SplitN(credential, pwdSeparator, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	key := pbkdf2.Key([]byte(pwd), []byte(parts[0]), pwdIterations, pwdKeyLen, sha256.New)
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(key)), []byte(parts[1])) == 1
}
