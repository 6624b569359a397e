package crypto

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	decoyOnce sync.Once
	decoyHash []byte
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// CheckMissing costs as much as CheckPassword against a real hash and always
// fails. Call it when the account does not exist.
func CheckMissing(password string) error {
	decoyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("no-such-account"), bcrypt.DefaultCost)
		if err == nil {
			decoyHash = hash
		}
	})
	if err := bcrypt.CompareHashAndPassword(decoyHash, []byte(password)); err != nil {
		return err
	}
	return bcrypt.ErrMismatchedHashAndPassword
}
