package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt cost used for stored passwords.
const DefaultCost = 12

// MinLength is the shortest accepted password.
const MinLength = 6

// Hash hashes a password using bcrypt.
func Hash(plain string) (string, error) {
	return HashWithCost(plain, DefaultCost)
}

// HashWithCost is Hash with an explicit cost; tests use bcrypt.MinCost.
func HashWithCost(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a password with a bcrypt hash.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
