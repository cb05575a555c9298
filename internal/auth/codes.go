package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateVerificationCode returns a uniformly random 6-digit numeric code.
func GenerateVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failing means the process has no usable entropy source.
		panic(fmt.Sprintf("verification code generation: %v", err))
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// CodeExpiry returns when a code issued now expires.
func CodeExpiry(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl)
}
