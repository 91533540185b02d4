// Package storage provides persistence backends for saved preference values.
package storage

import (
	"github.com/CreativeUnicorns/prefseditor"
)

var (
	_ prefseditor.Storage = (*MemoryStorage)(nil)
	_ prefseditor.Storage = (*SQLiteStorage)(nil)
	_ prefseditor.Storage = (*PostgresStorage)(nil)
)
