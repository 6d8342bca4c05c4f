package services

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is lowered by tests
var bcryptCost = bcrypt.DefaultCost

// HashPassword hashes a given password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with its hashed version.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnPasswordCheck runs a comparison against a throwaway hash so a login for an
// unknown username costs about as much as one with a wrong password.
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("not-a-real-password")
	})
	CheckPasswordHash(password, dummyHash)
}
