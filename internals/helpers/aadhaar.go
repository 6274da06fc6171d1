package helper

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

var (
	verhoeffD = [10][10]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
		{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
		{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
		{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
		{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
		{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
		{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
		{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
		{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
	}
	verhoeffP = [8][10]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
		{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
		{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
		{9, 4, 5, 3, 1, 2, 6, 8, 7, 0},
		{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
		{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
		{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
	}
)

// NormalizeAadhaar strips spaces and dashes ("2345 6789 0124" -> "234567890124").
func NormalizeAadhaar(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}

// IsValidAadhaar: 12 digits, first digit 2-9, Verhoeff check digit.
func IsValidAadhaar(s string) bool {
	s = NormalizeAadhaar(s)
	if len(s) != 12 || s[0] == '0' || s[0] == '1' {
		return false
	}
	c := 0
	for i := 0; i < len(s); i++ {
		ch := s[len(s)-1-i]
		if ch < '0' || ch > '9' {
			return false
		}
		c = verhoeffD[c][verhoeffP[i%8][int(ch-'0')]]
	}
	return c == 0
}

// MaskAadhaar keeps the last four digits: XXXX-XXXX-1234.
func MaskAadhaar(s string) string {
	s = NormalizeAadhaar(s)
	if len(s) < 4 {
		return "XXXX-XXXX-XXXX"
	}
	return "XXXX-XXXX-" + s[len(s)-4:]
}

// MaskAccount keeps the last four digits of a bank account number.
func MaskAccount(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 4 {
		return strings.Repeat("X", len(s))
	}
	return strings.Repeat("X", len(s)-4) + s[len(s)-4:]
}

// KeyedHash is HMAC-SHA256 hex, used to match identifiers without storing them.
func KeyedHash(secret, value string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(value))
	return hex.EncodeToString(m.Sum(nil))
}
