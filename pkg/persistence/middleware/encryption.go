package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/gatlab/pkg/ports"
	"github.com/aretw0/gatlab/pkg/sexpr"
)

// envelopeHead marks an encrypted term: ["$encrypted", "<base64 ciphertext>"].
const envelopeHead = "$encrypted"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next ports.TermStore
	// aeads[0] seals; all of them are tried in order when opening.
	aeads []cipher.AEAD
}

// NewEncryptionMiddleware creates a middleware that encrypts terms using AES-GCM.
// The wrapped store only sees an opaque envelope, which is itself a valid
// S-expression, so any TermStore can hold it.
// It panics if any key is not 32 bytes long.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	keys := append([][]byte{config.ActiveKey}, config.FallbackKeys...)
	aeads := make([]cipher.AEAD, 0, len(keys))
	for i, key := range keys {
		aead, err := newGCM(key)
		if err != nil {
			panic(fmt.Sprintf("encryption key %d: %v", i, err))
		}
		aeads = append(aeads, aead)
	}
	return func(next ports.TermStore) ports.TermStore {
		return &encryptionMiddleware{next: next, aeads: aeads}
	}
}

// ParseKey decodes a 32-byte key given in hex or standard base64.
func ParseKey(s string) ([]byte, error) {
	if key, err := hex.DecodeString(s); err == nil && len(key) == 32 {
		return key, nil
	}
	if key, err := base64.StdEncoding.DecodeString(s); err == nil && len(key) == 32 {
		return key, nil
	}
	return nil, errors.New("key must be 32 bytes, hex or base64 encoded")
}

func (m *encryptionMiddleware) Save(ctx context.Context, name string, sexp any) error {
	plainText, err := sexpr.ToJSON(sexp)
	if err != nil {
		return fmt.Errorf("failed to marshal term: %w", err)
	}

	ciphertext, err := seal(m.aeads[0], plainText)
	if err != nil {
		return fmt.Errorf("failed to encrypt term: %w", err)
	}

	envelope := []any{envelopeHead, base64.StdEncoding.EncodeToString(ciphertext)}
	return m.next.Save(ctx, name, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, name string) (any, error) {
	stored, err := m.next.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	// Fail secure: once encryption is configured, plain terms are rejected.
	envelope, ok := stored.([]any)
	if !ok || len(envelope) != 2 || envelope[0] != envelopeHead {
		return nil, fmt.Errorf("term %s is missing encrypted data envelope", name)
	}
	encryptedStr, ok := envelope[1].(string)
	if !ok {
		return nil, fmt.Errorf("term %s has a malformed envelope", name)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := open(m.aeads, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt term %s: %w", name, err)
	}

	sexp, err := sexpr.FromJSON(plainText)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted term: %w", err)
	}
	return sexp, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// seal returns nonce || ciphertext.
func seal(aead cipher.AEAD, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// open tries every key, active first.
func open(aeads []cipher.AEAD, sealed []byte) ([]byte, error) {
	for _, aead := range aeads {
		n := aead.NonceSize()
		if len(sealed) < n {
			return nil, errors.New("ciphertext too short")
		}
		if plain, err := aead.Open(nil, sealed[:n], sealed[n:], nil); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}
