package password

import (
	"sync/atomic"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
	// MinCost is the cheapest cost bcrypt accepts (tests)
	MinCost = bcrypt.MinCost
)

var cost atomic.Int32

func init() {
	cost.Store(DefaultCost)
}

// SetCost changes the bcrypt cost used by Hash
func SetCost(c int) {
	cost.Store(int32(c))
}

// Hash hashes a PIN using bcrypt
func Hash(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), int(cost.Load()))
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a PIN with a hash
func Verify(pin, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
	return err == nil
}

// IsPin reports whether pin is exactly length ASCII digits
func IsPin(pin string, length int) bool {
	if len(pin) != length {
		return false
	}
	for _, r := range pin {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
