// errors.go
package prefseditor

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input parameters")
	ErrInvalidName        = errors.New("invalid preference name")
	ErrInvalidType        = errors.New("invalid preference type")
	ErrInvalidValue       = errors.New("invalid preference value")
	ErrNotFound           = errors.New("preference not found")
	ErrNotDefined         = errors.New("preference not defined")
	ErrDuplicate          = errors.New("preference already defined")
	ErrReadOnly           = errors.New("preference has no editable value")
	ErrNoPrompter         = errors.New("no prompter configured")
	ErrSerialization      = errors.New("serialization error")
	ErrStorageUnavailable = errors.New("storage backend unavailable")
	ErrCacheUnavailable   = errors.New("cache backend unavailable")
)
