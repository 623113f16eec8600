package models

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/pbkdf2"
)

// ErrCorruptCredential is returned when a stored password hash cannot be
// parsed. A plain mismatch is never an error, only a false verification.
var ErrCorruptCredential = errors.New("stored password hash is malformed")

// PBKDF2 parameters for newly created hashes. Existing hashes carry their
// own parameters in the encoded string, so these can be raised without
// invalidating stored credentials.
const (
	hashIterations = 600000
	hashSaltLen    = 16
	hashKeyLen     = 32
)

// PasswordSpecialChars is the set of characters that satisfy the
// special-character rule of the password policy.
const PasswordSpecialChars = "!@#$%^&*()_+-=[]{};:,.<>?"

// WeakPasswordError reports the first password-policy rule an input failed.
type WeakPasswordError struct {
	Reason string
}

func (e *WeakPasswordError) Error() string {
	return e.Reason
}

// CheckPasswordStrength verifies the password policy: at least 8 characters
// with an uppercase letter, a lowercase letter, a digit and a special
// character. Returns a *WeakPasswordError naming the unmet rule.
func CheckPasswordStrength(password string) error {
	if len(password) < 8 {
		return &WeakPasswordError{Reason: "password must be at least 8 characters long"}
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			special = true
		}
	}
	switch {
	case !upper:
		return &WeakPasswordError{Reason: "password must contain an uppercase letter"}
	case !lower:
		return &WeakPasswordError{Reason: "password must contain a lowercase letter"}
	case !digit:
		return &WeakPasswordError{Reason: "password must contain a number"}
	case !special:
		return &WeakPasswordError{Reason: "password must contain a special character"}
	}
	return nil
}

// HashPassword derives a salted PBKDF2-SHA256 hash of the password. The
// result embeds algorithm, iteration count, salt and digest
// (pbkdf2:sha256:<iterations>$<salt>$<digest>) so it is self-describing
// and can be re-verified or upgraded later.
func HashPassword(password string) (string, error) {
	salt := make([]byte, hashSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(password), salt, hashIterations, hashKeyLen, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%x$%x", hashIterations, salt, key), nil
}

// VerifyPassword recomputes the hash with the parameters stored in the
// encoded string and compares in constant time. A mismatch yields
// (false, nil); only an unparseable stored hash is an error.
func VerifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 {
		return false, ErrCorruptCredential
	}

	header := strings.Split(parts[0], ":")
	if len(header) != 3 || header[0] != "pbkdf2" || header[1] != "sha256" {
		return false, ErrCorruptCredential
	}
	iterations, err := strconv.Atoi(header[2])
	if err != nil || iterations <= 0 {
		return false, ErrCorruptCredential
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil || len(salt) == 0 {
		return false, ErrCorruptCredential
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false, ErrCorruptCredential
	}

	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
