package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsHashed reports whether stored looks like a bcrypt hash rather than a legacy plaintext value.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// CheckPassword compares a candidate against a stored hash or legacy plaintext.
// needsUpgrade is true when the stored value matched as plaintext.
func CheckPassword(stored, candidate string) (ok, needsUpgrade bool) {
	if IsHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil, false
	}
	if stored != "" && stored == candidate {
		return true, true
	}
	return false, false
}
