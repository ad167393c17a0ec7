// Package otp issues the short one-time codes used for email verification
// and password reset.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

var TTL = 10 * time.Minute

// Generate returns a 6-digit zero-padded code.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", errors.New("generating otp error: " + err.Error())
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Expiry returns the moment a code issued now stops being accepted.
func Expiry(now time.Time) time.Time {
	return now.Add(TTL)
}

// Valid reports whether a stored code matches the given one and has not
// expired.
func Valid(stored, given string, expiry *time.Time, now time.Time) bool {
	if stored == "" || given == "" || expiry == nil {
		return false
	}
	return stored == given && expiry.After(now)
}
