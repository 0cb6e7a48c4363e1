package auth

import "golang.org/x/crypto/bcrypt"

// hashCost is the fixed bcrypt work factor for stored secrets.
const hashCost = 12

// HashPassword produces a salted one-way hash of the plaintext. A hashing
// failure is fatal for the caller's operation.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
// A wrong password is false, not an error.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
