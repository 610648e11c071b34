package domain

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

type CredentialKind uint8

const (
	CredentialEmpty CredentialKind = iota
	CredentialHashed
	CredentialPlaintext
)

// scrypt parameters; the derived key is stored hex encoded next to its salt.
const (
	scryptN      = 1 << 14
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
)

var ErrBadCredential = errors.New("malformed credential")

// Credential is either a salted scrypt hash or a plaintext password that
// still has to be hashed. The kind is explicit, never inferred from content.
type Credential struct {
	kind  CredentialKind
	hash  string
	salt  string
	plain string
}

func HashedCredential(hash, salt string) Credential {
	return Credential{kind: CredentialHashed, hash: hash, salt: salt}
}

func PlaintextCredential(password string) Credential {
	return Credential{kind: CredentialPlaintext, plain: password}
}

// HashPassword derives a fresh salted credential from a plaintext password.
func HashPassword(password string) (Credential, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return Credential{}, fmt.Errorf("read salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	key, err := derive(password, saltHex)
	if err != nil {
		return Credential{}, err
	}
	return HashedCredential(hex.EncodeToString(key), saltHex), nil
}

func derive(password, salt string) ([]byte, error) {
	return scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
}

func (c Credential) Kind() CredentialKind { return c.kind }
func (c Credential) IsHashed() bool       { return c.kind == CredentialHashed }
func (c Credential) Hash() string         { return c.hash }
func (c Credential) Salt() string         { return c.salt }

// Plaintext returns the unhashed password, if this credential holds one.
func (c Credential) Plaintext() (string, bool) {
	return c.plain, c.kind == CredentialPlaintext
}

// Hashed returns c unchanged when already hashed and hashes it otherwise.
func (c Credential) Hashed() (Credential, error) {
	switch c.kind {
	case CredentialHashed:
		return c, nil
	case CredentialPlaintext:
		return HashPassword(c.plain)
	default:
		return Credential{}, ErrBadCredential
	}
}

// Verify reports whether password matches a hashed credential. Plaintext
// credentials never verify; they must be migrated first.
func (c Credential) Verify(password string) bool {
	if c.kind != CredentialHashed {
		return false
	}
	want, err := hex.DecodeString(c.hash)
	if err != nil {
		return false
	}
	got, err := derive(password, c.salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(want, got) == 1
}

// MarshalJSON writes hashed credentials as "<hash>.<salt>" and plaintext ones
// as {"plaintext": "..."}.
func (c Credential) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CredentialHashed:
		return json.Marshal(c.hash + "." + c.salt)
	case CredentialPlaintext:
		return json.Marshal(struct {
			Plaintext string `json:"plaintext"`
		}{c.plain})
	default:
		return []byte("null"), nil
	}
}

func (c *Credential) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = Credential{}
		return nil
	}
	if len(b) > 0 && b[0] == '{' {
		var v struct {
			Plaintext *string `json:"plaintext"`
		}
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		if v.Plaintext == nil {
			return ErrBadCredential
		}
		*c = PlaintextCredential(*v.Plaintext)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	// Older files keep unhashed passwords as bare strings; anything that is
	// not a "<hex>.<salt>" pair is one of those.
	hash, salt, ok := strings.Cut(s, ".")
	if !ok || hash == "" || salt == "" {
		*c = PlaintextCredential(s)
		return nil
	}
	if _, err := hex.DecodeString(hash); err != nil {
		*c = PlaintextCredential(s)
		return nil
	}
	*c = HashedCredential(hash, salt)
	return nil
}
