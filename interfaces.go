// interfaces.go
package prefseditor

import (
	"context"
	"time"
)

// Storage defines the methods required for a persistence backend.
type Storage interface {
	Get(ctx context.Context, profile, name string) (*StoredValue, error)
	Set(ctx context.Context, v *StoredValue) error
	Delete(ctx context.Context, profile, name string) error
	GetAll(ctx context.Context, profile string) (map[string]*StoredValue, error)
	GetByModule(ctx context.Context, profile, module string) (map[string]*StoredValue, error)
	Close() error
}

// Cache defines the methods required for a caching backend.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Encryptor encrypts sensitive values before they reach storage.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Prompter shows the modal selection prompts used by filename and color entries.
// Each method blocks until the user accepts or cancels; ok is false on cancel.
type Prompter interface {
	PromptFilename(ctx context.Context, title, current string) (path string, ok bool, err error)
	PromptColor(ctx context.Context, title string, current RGB8) (color RGB8, ok bool, err error)
}
