package domain

import "golang.org/x/crypto/bcrypt"

// passwordCost matches the cost factor the forum has always hashed with.
const passwordCost = 10

// HashPassword returns the bcrypt hash of a raw password.
func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether raw matches the user's stored hash.
// A mismatch is a false return, never an error.
func (u *User) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(raw)) == nil
}
