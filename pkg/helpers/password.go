package helpers

import "golang.org/x/crypto/bcrypt"

// PasswordCost is fixed for every hash the service produces.
const PasswordCost = 10

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var dummyHash, _ = HashPassword("timing-equalizer")

// EqualizeTiming burns one bcrypt comparison so that a login for an unknown
// email costs about as much as one with a wrong password.
func EqualizeTiming(plain string) {
	_ = CompareHashAndPassword(dummyHash, plain)
}
