package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
)

// AuthService seals connection credentials into an opaque cookie value and
// opens them again on later requests. Nothing is stored server-side; the
// cookie is the whole session.
type AuthService struct {
	key []byte
}

// NewAuthService builds the service from a configured 32-byte key. Any other
// key length gets a random ephemeral key, which means sessions do not
// survive a restart.
func NewAuthService(configuredKey string) *AuthService {
	if len(configuredKey) == 32 {
		return &AuthService{key: []byte(configuredKey)}
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		panic("failed to generate session key")
	}
	return &AuthService{key: key}
}

// SealCredentials serialises and AES-GCM encrypts credentials for the cookie.
func (s *AuthService) SealCredentials(creds Credentials) (string, error) {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return "", err
	}

	gcm, err := s.newGCM()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// OpenCredentials decodes a cookie value back into Credentials. Tampered or
// foreign cookies fail authentication of the GCM tag.
func (s *AuthService) OpenCredentials(sealed string) (*Credentials, error) {
	raw, err := base64.URLEncoding.DecodeString(sealed)
	if err != nil {
		return nil, err
	}

	gcm, err := s.newGCM()
	if err != nil {
		return nil, err
	}

	if len(raw) < gcm.NonceSize() {
		return nil, errors.New("malformed session cookie")
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (s *AuthService) newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
