package utils

import (
    "crypto/rand"
    "fmt"
)

// GenerateOTP generates a numeric one-time code of n digits using
// cryptographically secure randomness.  The code is emailed to the
// user during password reset; only its hash is persisted.
func GenerateOTP(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", fmt.Errorf("generate otp: %w", err)
    }
    code := make([]byte, n)
    for i := 0; i < n; i++ {
        code[i] = '0' + (buf[i] % 10)
    }
    return string(code), nil
}
