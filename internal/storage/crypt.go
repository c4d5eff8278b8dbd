package storage

import (
    "crypto/aes"
    "crypto/cipher"
    "crypto/rand"
    "crypto/sha256"
    "fmt"
    "io"

    "golang.org/x/crypto/pbkdf2"
)

// gcmMagic marks the envelope format:
// magic(8) + salt(16) + nonce(12) + ciphertext||tag(16).
const gcmMagic = "GCM3NCR0"

const (
    saltSize       = 16
    nonceSize      = 12
    pbkdf2Rounds   = 100000
    derivedKeySize = 32
)

// sealGCM encrypts data under a password-derived key.
func sealGCM(data []byte, password string) ([]byte, error) {
    salt := make([]byte, saltSize)
    if _, err := io.ReadFull(rand.Reader, salt); err != nil {
        return nil, fmt.Errorf("generate salt: %w", err)
    }

    gcm, err := newGCM(password, salt)
    if err != nil {
        return nil, err
    }
    nonce := make([]byte, nonceSize)
    if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
        return nil, fmt.Errorf("generate nonce: %w", err)
    }

    out := make([]byte, 0, len(gcmMagic)+saltSize+nonceSize+len(data)+gcm.Overhead())
    out = append(out, gcmMagic...)
    out = append(out, salt...)
    out = append(out, nonce...)
    return gcm.Seal(out, nonce, data, nil), nil
}

// openGCM decrypts a sealGCM envelope.
func openGCM(data []byte, password string) ([]byte, error) {
    header := len(gcmMagic) + saltSize + nonceSize
    if len(data) < header+16 {
        return nil, fmt.Errorf("encrypted data too short: %d bytes", len(data))
    }
    if string(data[:len(gcmMagic)]) != gcmMagic {
        return nil, fmt.Errorf("unrecognized encryption format")
    }
    salt := data[len(gcmMagic) : len(gcmMagic)+saltSize]
    nonce := data[len(gcmMagic)+saltSize : header]

    gcm, err := newGCM(password, salt)
    if err != nil {
        return nil, err
    }
    plaintext, err := gcm.Open(nil, nonce, data[header:], nil)
    if err != nil {
        return nil, fmt.Errorf("decrypt failed: %w", err)
    }
    return plaintext, nil
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
    key := pbkdf2.Key([]byte(password), salt, pbkdf2Rounds, derivedKeySize, sha256.New)
    block, err := aes.NewCipher(key)
    if err != nil {
        return nil, fmt.Errorf("create cipher: %w", err)
    }
    gcm, err := cipher.NewGCM(block)
    if err != nil {
        return nil, fmt.Errorf("create GCM: %w", err)
    }
    return gcm, nil
}
