package service

import "crypto/rand"

// tokenAlphabet leaves out look-alike characters (0, O, 1, I, l).
const tokenAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const shortTokenLength = 8

// newShortToken mints a random 8-character token. Every call produces a fresh
// token; collisions are handled by the caller via the store's primary key.
func newShortToken() (string, error) {
	// bytes at or above the largest multiple of the alphabet size are
	// rejected so every character is equally likely
	limit := byte(256 - 256%len(tokenAlphabet))

	token := make([]byte, 0, shortTokenLength)
	buf := make([]byte, shortTokenLength)
	for len(token) < shortTokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			token = append(token, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(token) == shortTokenLength {
				break
			}
		}
	}

	return string(token), nil
}
