package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var ErrBadCookie = errors.New("session: cookie rejected")

// CookieCodec seals session IDs so a client cannot forge or enumerate them.
type CookieCodec struct {
	key [32]byte
}

// NewCookieCodec derives the sealing key from the configured secret.
func NewCookieCodec(secret string) (*CookieCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session: secret is empty")
	}
	return &CookieCodec{key: sha256.Sum256([]byte(secret))}, nil
}

// Seal encrypts and authenticates id.
func (c *CookieCodec) Seal(id string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(id), &nonce, &c.key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

// Open returns the ID sealed in value, or ErrBadCookie if it was tampered
// with or sealed under another key.
func (c *CookieCodec) Open(value string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrBadCookie
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", ErrBadCookie
	}
	return string(plain), nil
}
