package prefseditor

import (
	"github.com/CreativeUnicorns/prefseditor/encryption"
)

// NewEnvEncryptor returns an AES-256-GCM Encryptor keyed from the environment.
// It fails fast when the key is missing or too short.
func NewEnvEncryptor() (Encryptor, error) {
	c, err := encryption.NewCipher()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewKeyEncryptor returns an AES-256-GCM Encryptor keyed with explicit key material.
func NewKeyEncryptor(key []byte) (Encryptor, error) {
	c, err := encryption.NewCipherWithKey(key)
	if err != nil {
		return nil, err
	}
	return c, nil
}
