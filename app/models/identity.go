package models

import (
	"crypto/ed25519"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
)

const (
	IdentitySize = 32
	AddressSize  = 32
)

var textEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Identity is an opaque principal identifier, in practice an ed25519 public key.
type Identity [IdentitySize]byte

// Address is a deterministic storage key. See BlogAddress and PostAddress.
type Address [AddressSize]byte

// IdentityFromPublicKey wraps an ed25519 public key as an Identity.
func IdentityFromPublicKey(pub ed25519.PublicKey) (Identity, error) {
	var id Identity
	if len(pub) != ed25519.PublicKeySize {
		return id, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	copy(id[:], pub)
	return id, nil
}

// ParseIdentity decodes the lowercase base32 text form of an Identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	err := decodeFixed(s, id[:])
	if err != nil {
		return id, fmt.Errorf("invalid identity %q: %w", s, err)
	}
	return id, nil
}

// ParseAddress decodes the lowercase base32 text form of an Address.
func ParseAddress(s string) (Address, error) {
	var addr Address
	err := decodeFixed(s, addr[:])
	if err != nil {
		return addr, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return addr, nil
}

func decodeFixed(s string, dst []byte) error {
	raw, err := textEncoding.DecodeString(strings.ToUpper(s))
	if err != nil {
		return err
	}
	if len(raw) != len(dst) {
		return fmt.Errorf("want %d bytes, got %d", len(dst), len(raw))
	}
	copy(dst, raw)
	return nil
}

func (id Identity) String() string {
	return strings.ToLower(textEncoding.EncodeToString(id[:]))
}

// IsZero reports whether id is the all-zero identity.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (a Address) String() string {
	return strings.ToLower(textEncoding.EncodeToString(a[:]))
}

// IsZero reports whether a is the all-zero address, which never refers to a record.
func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return errors.New("empty address")
	}
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
