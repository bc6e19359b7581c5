// Package code generates and parses the short game codes players share to
// join each other. Codes are base-36 numbers drawn from [Min, Max).
package code

import (
	"math/rand"
)

const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const (
	base  = uint32(len(Alphabet))
	Width = 6
	// Min is 36^5, the smallest value with Width symbols.
	Min = base * base * base * base * base
	// Max is 36^6 and is never generated.
	Max = Min * base
)

// Generator returns a fresh code on every call.
type Generator func() string

// GenerateRandom samples uniformly from [Min, Max).
func GenerateRandom() string {
	return Encode(Min + uint32(rand.Int63n(int64(Max-Min))))
}

// Encode renders n most-significant symbol first, left padded with '0' to
// Width symbols.
func Encode(n uint32) string {
	buf := make([]byte, 0, Width)
	for n > 0 {
		buf = append(buf, Alphabet[n%base])
		n /= base
	}
	for len(buf) < Width {
		buf = append(buf, '0')
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Parse maps s back to its value. It fails on empty input, input longer than
// Width and any byte outside Alphabet.
func Parse(s string) (uint32, bool) {
	if len(s) == 0 || len(s) > Width {
		return 0, false
	}
	var n uint32
	for i := 0; i < len(s); i++ {
		b := s[i]
		var digit uint32
		switch {
		case b >= '0' && b <= '9':
			digit = uint32(b - '0')
		case b >= 'a' && b <= 'z':
			digit = uint32(b-'a') + 10
		default:
			return 0, false
		}
		n = n*base + digit
	}
	return n, true
}

// Valid reports whether s is a code this package could have generated.
func Valid(s string) bool {
	n, ok := Parse(s)
	return ok && n >= Min && n < Max
}
