// persist.go
package prefseditor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Load reads the saved values of the configured profile from storage and applies them.
// Entries without a saved value go back to their default, since storage only records changed settings.
// Unknown names and values that no longer parse are logged and skipped.
// It returns the number of values applied.
func (r *Registry) Load(ctx context.Context) (int, error) {
	if r.config.storage == nil {
		return 0, ErrStorageUnavailable
	}

	stored, err := r.config.storage.GetAll(ctx, r.config.profile)
	if err != nil {
		return 0, fmt.Errorf("load profile %q: %w", r.config.profile, err)
	}

	applied := r.applyAll(ctx, r.Entries(), stored)
	r.config.logger.Debug("Loaded preferences", "profile", r.config.profile, "applied", applied, "stored", len(stored))
	return applied, nil
}

// LoadModule is Load restricted to the entries of m and its submodules.
func (r *Registry) LoadModule(ctx context.Context, m *Module) (int, error) {
	if m == nil {
		return 0, fmt.Errorf("%w: nil module", ErrInvalidInput)
	}
	if r.config.storage == nil {
		return 0, ErrStorageUnavailable
	}

	applied := 0
	var walk func(m *Module) error
	walk = func(m *Module) error {
		if entries := m.Entries(); len(entries) > 0 {
			stored, err := r.config.storage.GetByModule(ctx, r.config.profile, m.Path())
			if err != nil {
				return fmt.Errorf("load module %q: %w", m.Path(), err)
			}
			applied += r.applyAll(ctx, entries, stored)
		}
		for _, sub := range m.Submodules() {
			if err := walk(sub); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(m); err != nil {
		return applied, err
	}

	r.config.logger.Debug("Loaded module preferences", "profile", r.config.profile, "module", m.Path(), "applied", applied)
	return applied, nil
}

// applyAll applies stored to entries and resets every entry in entries that has no usable saved value.
func (r *Registry) applyAll(ctx context.Context, entries []*Entry, stored map[string]*StoredValue) int {
	inScope := make(map[string]*Entry, len(entries))
	for _, e := range entries {
		if e.typ.hasValue() {
			inScope[e.fullName] = e
		}
	}

	applied := 0
	for name, sv := range stored {
		e, ok := inScope[name]
		if !ok {
			r.config.logger.Warn("Ignoring saved value for unknown preference", "name", name, "profile", r.config.profile)
			continue
		}
		if err := r.applyStored(e, sv); err != nil {
			r.config.logger.Warn("Ignoring unusable saved value", "name", name, "error", err)
			continue
		}
		if r.config.cache != nil {
			r.setToCache(ctx, sv)
		}
		delete(inScope, name)
		applied++
	}

	for _, e := range inScope {
		if r.IsDefault(e) {
			continue
		}
		r.ResetToDefault(e)
		if r.config.cache != nil {
			r.deleteFromCache(ctx, e.fullName)
		}
	}
	return applied
}

// LoadEntry refreshes a single entry from the cache, falling back to storage.
// An entry with no saved value is reset to its default.
func (r *Registry) LoadEntry(ctx context.Context, e *Entry) error {
	if e == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidInput)
	}
	if !e.typ.hasValue() {
		return nil
	}
	if r.config.storage == nil {
		return ErrStorageUnavailable
	}

	if r.config.cache != nil {
		if sv, err := r.getFromCache(ctx, e.fullName); err == nil {
			return r.applyStored(e, sv)
		}
	}

	sv, err := r.config.storage.Get(ctx, r.config.profile, e.fullName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.ResetToDefault(e)
			return nil
		}
		return err
	}

	if r.config.cache != nil {
		r.setToCache(ctx, sv)
	}
	return r.applyStored(e, sv)
}

// Save writes every changed value to storage and removes saved values that are back at their default,
// so storage only ever records settings that differ from the defaults.
func (r *Registry) Save(ctx context.Context) error {
	if r.config.storage == nil {
		return ErrStorageUnavailable
	}

	var errs []error
	for _, e := range r.Entries() {
		if !e.typ.hasValue() {
			continue
		}
		if r.IsDefault(e) {
			if err := r.config.storage.Delete(ctx, r.config.profile, e.fullName); err != nil && !errors.Is(err, ErrNotFound) {
				errs = append(errs, fmt.Errorf("%s: %w", e.fullName, err))
				continue
			}
			if r.config.cache != nil {
				r.deleteFromCache(ctx, e.fullName)
			}
			continue
		}

		sv, err := r.toStored(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.fullName, err))
			continue
		}
		if err := r.config.storage.Set(ctx, sv); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.fullName, err))
			continue
		}
		if r.config.cache != nil {
			r.setToCache(ctx, sv)
		}
	}

	if len(errs) > 0 {
		r.config.logger.Error("Failed to save some preferences", "profile", r.config.profile, "failures", len(errs))
		return errors.Join(errs...)
	}
	return nil
}

func (r *Registry) toStored(e *Entry) (*StoredValue, error) {
	sv := &StoredValue{
		Profile:   r.config.profile,
		Name:      e.fullName,
		Module:    e.module.Path(),
		Type:      string(e.typ),
		Value:     r.ToDisplayString(e, false),
		UpdatedAt: time.Now(),
	}
	if e.sensitive {
		if r.config.encryptor == nil {
			r.config.logger.Warn("Saving sensitive preference without encryption", "name", e.fullName)
			return sv, nil
		}
		ciphertext, err := r.config.encryptor.Encrypt(sv.Value)
		if err != nil {
			return nil, err
		}
		sv.Value = ciphertext
		sv.Encrypted = true
	}
	return sv, nil
}

func (r *Registry) applyStored(e *Entry, sv *StoredValue) error {
	if sv.Type != "" && PrefType(sv.Type) != e.typ {
		return fmt.Errorf("%w: saved as %s, defined as %s", ErrInvalidType, sv.Type, e.typ)
	}
	text := sv.Value
	if sv.Encrypted {
		if r.config.encryptor == nil {
			return fmt.Errorf("%w: value is encrypted and no encryptor is configured", ErrInvalidInput)
		}
		plaintext, err := r.config.encryptor.Decrypt(text)
		if err != nil {
			return err
		}
		text = plaintext
	}
	v, err := r.ParseValue(e, text)
	if err != nil {
		return err
	}
	return r.SetValue(e, v)
}

func (r *Registry) cacheKey(name string) string {
	return fmt.Sprintf("pref:%s:%s", r.config.profile, name)
}

func (r *Registry) getFromCache(ctx context.Context, name string) (*StoredValue, error) {
	data, err := r.config.cache.Get(ctx, r.cacheKey(name))
	if err != nil {
		return nil, err
	}

	var raw []byte
	switch d := data.(type) {
	case []byte:
		raw = d
	case string:
		raw = []byte(d)
	default:
		return nil, fmt.Errorf("%w: unexpected cached type %T", ErrSerialization, data)
	}

	var sv StoredValue
	if err := json.Unmarshal(raw, &sv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return &sv, nil
}

func (r *Registry) setToCache(ctx context.Context, sv *StoredValue) {
	data, err := json.Marshal(sv)
	if err != nil {
		r.config.logger.Error("Failed to marshal preference for cache", "error", err)
		return
	}

	if err := r.config.cache.Set(ctx, r.cacheKey(sv.Name), data, r.config.cacheTTL); err != nil {
		r.config.logger.Error("Failed to cache preference", "name", sv.Name, "error", err)
	}
}

func (r *Registry) deleteFromCache(ctx context.Context, name string) {
	if err := r.config.cache.Delete(ctx, r.cacheKey(name)); err != nil {
		r.config.logger.Error("Failed to delete preference from cache", "name", name, "error", err)
	}
}
