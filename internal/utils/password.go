package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes a member's password with the configured
// cost.  The cost comes from configuration so tests can use a cheap
// one while production stays at a slow setting.
func HashPassword(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// The comparison is constant time; a malformed hash counts as a
// mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
