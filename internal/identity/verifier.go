package identity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a presented password against a stored credential.
// Applicable gates each verifier to the credential formats it recognizes.
// Verifiers are tried in a fixed order; the chain migrates legacy matches
// to the canonical format and never downgrades a credential.
type Verifier interface {
	Applicable(stored string) bool
	Verify(password, stored string) bool
}

// VerifierChain tries each verifier in order against the stored value.
// The first applicable verifier decides the outcome.
type VerifierChain struct {
	verifiers []Verifier
}

// NewVerifierChain builds the production chain: bcrypt, then the legacy
// SHA-256 hex format older records were written with, then plaintext for
// records predating hashing entirely.
func NewVerifierChain() *VerifierChain {
	return &VerifierChain{verifiers: []Verifier{
		bcryptVerifier{},
		legacySHA256Verifier{},
		plaintextVerifier{},
	}}
}

// Verify reports whether the password matches and, when the match came
// from a legacy format, the bcrypt hash to migrate the record to.
func (c *VerifierChain) Verify(password, stored string) (ok bool, upgraded string) {
	if stored == "" {
		return false, ""
	}
	for _, v := range c.verifiers {
		if !v.Applicable(stored) {
			continue
		}
		if !v.Verify(password, stored) {
			return false, ""
		}
		if _, isBcrypt := v.(bcryptVerifier); !isBcrypt {
			if hash, err := HashPassword(password); err == nil {
				return true, hash
			}
		}
		return true, ""
	}
	return false, ""
}

// HashPassword produces the canonical credential format.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

type bcryptVerifier struct{}

func (bcryptVerifier) Applicable(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

func (bcryptVerifier) Verify(password, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// legacySHA256Verifier matches the unsalted SHA-256 hex digests the first
// generation of records stored.
type legacySHA256Verifier struct{}

func (legacySHA256Verifier) Applicable(stored string) bool {
	if len(stored) != 64 {
		return false
	}
	_, err := hex.DecodeString(stored)
	return err == nil
}

func (legacySHA256Verifier) Verify(password, stored string) bool {
	sum := sha256.Sum256([]byte(password))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) == 1
}

// plaintextVerifier is the last resort for records created before any
// hashing existed.
type plaintextVerifier struct{}

func (plaintextVerifier) Applicable(string) bool { return true }

func (plaintextVerifier) Verify(password, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}
