package secrets

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var ErrSealed = errors.New("sealed value is corrupt or was sealed with another key")

// Sealer шифрует токены сессии перед записью в БД.
type Sealer struct{ aead cipher.AEAD }

// NewSealer выводит ключ из секрета конфигурации (argon2id, фиксированная соль:
// ключ должен быть одинаковым между перезапусками).
func NewSealer(secret string) (*Sealer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret must not be empty")
	}
	key := argon2.IDKey([]byte(secret), []byte("guardhouse-session"), 1, 64*1024, 1, chacha20poly1305.KeySize)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal: nonce || ciphertext. Пустой вход остаётся пустым.
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	if len(plain) == 0 {
		return nil, nil
	}
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plain)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plain, nil), nil
}

func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) == 0 {
		return nil, nil
	}
	ns := s.aead.NonceSize()
	if len(sealed) < ns+s.aead.Overhead() {
		return nil, ErrSealed
	}
	plain, err := s.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, ErrSealed
	}
	return plain, nil
}
