package service

import (
	"crypto/subtle"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptHashLength is the length of a well-formed bcrypt hash.
const bcryptHashLength = 60

type hashFormat int

const (
	formatPlaintext hashFormat = iota
	formatBcrypt
	formatTruncatedBcrypt
)

func (f hashFormat) String() string {
	switch f {
	case formatBcrypt:
		return "bcrypt"
	case formatTruncatedBcrypt:
		return "truncated-bcrypt"
	default:
		return "plaintext"
	}
}

// truncatedBcrypt matches a bcrypt hash that lost its leading "$2".
var truncatedBcrypt = regexp.MustCompile(`^[aby]\$\d{2}\$`)

func detectFormat(stored string) hashFormat {
	stored = strings.TrimSpace(stored)
	switch {
	case strings.HasPrefix(stored, "$2a$"), strings.HasPrefix(stored, "$2b$"), strings.HasPrefix(stored, "$2y$"):
		return formatBcrypt
	case truncatedBcrypt.MatchString(stored):
		return formatTruncatedBcrypt
	default:
		return formatPlaintext
	}
}

// Verification is the outcome of checking a password against a stored value.
// Migration, when non-empty, is the value that should replace the stored one.
type Verification struct {
	Matched   bool
	Migration string
	Format    string
}

// PasswordVerifier hashes new passwords and verifies submitted ones against
// stored values, including legacy formats that need repair.
type PasswordVerifier interface {
	Hash(password string) (string, error)
	Verify(password, stored string) (Verification, error)
}

type verifyStrategy func(v *passwordVerifier, password, stored string) (Verification, error)

var verifyStrategies = map[hashFormat]verifyStrategy{
	formatBcrypt:          verifyBcrypt,
	formatTruncatedBcrypt: verifyTruncatedBcrypt,
	formatPlaintext:       verifyPlaintext,
}

type passwordVerifier struct {
	cost int
}

// NewPasswordVerifier creates a verifier hashing with the given bcrypt cost.
// Out-of-range costs fall back to bcrypt.DefaultCost.
func NewPasswordVerifier(cost int) PasswordVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &passwordVerifier{cost: cost}
}

func (v *passwordVerifier) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify never reports a match for empty input. A non-nil error means the
// password matched but a replacement hash could not be produced.
func (v *passwordVerifier) Verify(password, stored string) (Verification, error) {
	if password == "" || stored == "" {
		return Verification{}, nil
	}
	format := detectFormat(stored)
	result, err := verifyStrategies[format](v, password, stored)
	result.Format = format.String()
	return result, err
}

// verifyBcrypt checks the trimmed hash when the stored value carries
// whitespace. bcrypt ignores bytes past the hash, so the untrimmed value
// would match too and the row would never be repaired.
func verifyBcrypt(_ *passwordVerifier, password, stored string) (Verification, error) {
	trimmed := strings.TrimSpace(stored)
	if !bcryptMatches(trimmed, password) {
		return Verification{}, nil
	}
	if trimmed != stored {
		return Verification{Matched: true, Migration: trimmed}, nil
	}
	return Verification{Matched: true}, nil
}

func verifyTruncatedBcrypt(v *passwordVerifier, password, stored string) (Verification, error) {
	repaired := "$2" + strings.TrimSpace(stored)
	if bcryptMatches(repaired, password) {
		return Verification{Matched: true, Migration: repaired}, nil
	}

	if !constantTimeEqual(password, stored) {
		return Verification{}, nil
	}
	return v.rehash(password)
}

func verifyPlaintext(v *passwordVerifier, password, stored string) (Verification, error) {
	if !constantTimeEqual(password, stored) && !constantTimeEqual(password, strings.TrimSpace(stored)) {
		return Verification{}, nil
	}
	if len(stored) >= bcryptHashLength {
		return Verification{Matched: true}, nil
	}
	return v.rehash(password)
}

func (v *passwordVerifier) rehash(password string) (Verification, error) {
	hash, err := v.Hash(password)
	if err != nil {
		return Verification{Matched: true}, err
	}
	return Verification{Matched: true, Migration: hash}, nil
}

func bcryptMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
