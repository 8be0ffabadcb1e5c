package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
)

const otpLength = 6

// generateOTP returns otpLength uniform random decimal digits.
func generateOTP() (string, error) {
	digits := make([]byte, otpLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// otpEqual compares a cached OTP against user input without leaking the
// match position through timing.
func otpEqual(cached, supplied string) bool {
	if cached == "" || len(cached) != len(supplied) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cached), []byte(supplied)) == 1
}
