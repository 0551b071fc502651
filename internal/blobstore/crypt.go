package blobstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// ===== At-Rest Blob Encryption =====

// ReadMasterKey reads the 32-byte master key from MASTER_KEY_HEX or, failing
// that, from a master.key file next to the binary.
func ReadMasterKey() ([]byte, error) {
	h := os.Getenv("MASTER_KEY_HEX")
	if h == "" {
		data, err := os.ReadFile("master.key")
		if err != nil {
			return nil, fmt.Errorf("MASTER_KEY_HEX not set and master.key file not found")
		}
		h = string(data)
	}
	h = strings.TrimSpace(h)
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("master key hex decode error: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("master key length must be 32 bytes (hex 64 chars)")
	}
	return b, nil
}

// DeriveBlobKey derives the blob sealing key from the master key via
// HKDF-SHA256, so the raw master key never touches the cipher directly.
func DeriveBlobKey(master []byte) ([]byte, error) {
	h := hkdf.New(sha256.New, master, nil, []byte("blob-store-key"))
	out := make([]byte, 32)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, err
	}
	return out, nil
}

// EncryptAESGCM seals plaintext under a 32-byte key, prepending the nonce.
func EncryptAESGCM(key, plaintext []byte) ([]byte, error) {
	if len(key) != 32 {
		return nil, errors.New("key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	ct := gcm.Seal(nil, nonce, plaintext, nil)
	return append(nonce, ct...), nil
}

// DecryptAESGCM reverses EncryptAESGCM.
func DecryptAESGCM(key, blob []byte) ([]byte, error) {
	if len(key) != 32 {
		return nil, errors.New("key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	ns := gcm.NonceSize()
	if len(blob) < ns {
		return nil, errors.New("ciphertext too short")
	}
	return gcm.Open(nil, blob[:ns], blob[ns:], nil)
}
