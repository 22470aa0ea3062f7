package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
)

var ErrDecrypt = errors.New("failed to decrypt message text")

// Encryptor seals message text at rest with AES-GCM. Ciphertext written by
// older deployments with Fernet keys can still be opened.
//
// A nil *Encryptor is valid and stores text as-is.
type Encryptor struct {
	aead       cipher.AEAD
	fernetKeys []*fernet.Key
}

// NewEncryptor derives an AES-256 key from key via SHA-256. It returns a nil
// Encryptor and no error when key is empty, which disables encryption.
func NewEncryptor(key string, legacyKeys []string) (*Encryptor, error) {
	if key == "" {
		return nil, nil
	}
	sum := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	e := &Encryptor{aead: aead}
	for _, raw := range append([]string{key}, legacyKeys...) {
		if fk := parseFernetKey(raw); fk != nil {
			e.fernetKeys = append(e.fernetKeys, fk)
		}
	}
	return e, nil
}

func parseFernetKey(raw string) *fernet.Key {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	key, err := fernet.DecodeKey(trimmed)
	if err != nil {
		return nil
	}
	return key
}

func (e *Encryptor) Enabled() bool { return e != nil }

func (e *Encryptor) Encrypt(plain string) (string, error) {
	if e == nil {
		return plain, nil
	}
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := e.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (e *Encryptor) Decrypt(stored string) (string, error) {
	if e == nil {
		return stored, nil
	}
	if raw, err := base64.StdEncoding.DecodeString(stored); err == nil && len(raw) >= e.aead.NonceSize() {
		n := e.aead.NonceSize()
		if plain, err := e.aead.Open(nil, raw[:n], raw[n:], nil); err == nil {
			return string(plain), nil
		}
	}
	if len(e.fernetKeys) > 0 {
		if plain := fernet.VerifyAndDecrypt([]byte(stored), 0*time.Second, e.fernetKeys); plain != nil {
			return string(plain), nil
		}
	}
	return "", ErrDecrypt
}

// Reveal decrypts stored text, falling back to the stored value for rows
// written before encryption was enabled.
func (e *Encryptor) Reveal(stored string) string {
	plain, err := e.Decrypt(stored)
	if err != nil {
		return stored
	}
	return plain
}
