package pinning

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// SealAlgorithm names the cipher recorded in every envelope.
const SealAlgorithm = "AES-256-GCM"

const (
	sealSalt = "medguard-record-seal"
	sealInfo = "aes-256-gcm-v1"
)

// ErrOpen is returned when an envelope cannot be decrypted with the key.
var ErrOpen = errors.New("failed to open sealed envelope")

// Envelope is a sealed JSON payload. Byte fields encode as base64.
type Envelope struct {
	Alg        string `json:"alg"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Sealer encrypts JSON payloads before they leave the service.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives an AES-256 key from secret with HKDF-SHA256.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, errors.New("sealing secret must not be empty")
	}

	key := make([]byte, 32)
	reader := hkdf.New(sha256.New, []byte(secret), []byte(sealSalt), []byte(sealInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive sealing key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal marshals v to JSON and encrypts it under a fresh nonce.
func (s *Sealer) Seal(v any) (Envelope, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return Envelope{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return Envelope{
		Alg:        SealAlgorithm,
		Nonce:      nonce,
		Ciphertext: s.aead.Seal(nil, nonce, plaintext, []byte(SealAlgorithm)),
	}, nil
}

// Open decrypts env and unmarshals the payload into v.
func (s *Sealer) Open(env Envelope, v any) error {
	if env.Alg != SealAlgorithm {
		return fmt.Errorf("%w: unsupported algorithm %q", ErrOpen, env.Alg)
	}
	if len(env.Nonce) != s.aead.NonceSize() {
		return fmt.Errorf("%w: bad nonce length %d", ErrOpen, len(env.Nonce))
	}

	plaintext, err := s.aead.Open(nil, env.Nonce, env.Ciphertext, []byte(SealAlgorithm))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("failed to unmarshal opened payload: %w", err)
	}
	return nil
}
