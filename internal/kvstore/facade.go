package kvstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"recipekit/internal/logging"
)

// Class selects which backend a façade operation targets.
type Class int

const (
	// ClassDefault uses the backend picked by the startup availability probe.
	ClassDefault Class = iota
	// ClassLocal is the durable small-object store (file backend).
	ClassLocal
	// ClassSession is the ephemeral, process-shared store (memory backend).
	ClassSession
	// ClassBlob is the durable large-object store (sqlite backend). Writes
	// that fail here are retried once against ClassLocal.
	ClassBlob
)

// Facade is the unified storage surface. It is an immutable handle produced
// by NewFacade; failures degrade to boolean or nil results and are logged,
// never propagated.
type Facade struct {
	defaultBackend Backend
	local          Backend
	session        Backend
	blob           Backend
	logger         *slog.Logger
}

// NewFacade probes the given backends in the listed preference order and
// returns a façade whose default backend is the first available one. The
// order slice names backends ("file", "memory", "sqlite"); unknown or
// unavailable names are skipped and logged. Returns false when no backend
// passes its probe.
func NewFacade(order []string, local *FileBackend, session *MemoryBackend, blob *SQLiteBackend, logger *slog.Logger) (*Facade, bool) {
	log := logging.NewComponentLogger(logger, "storage")

	byName := map[string]Backend{}
	if local != nil {
		byName["file"] = local
	}
	if session != nil {
		byName["memory"] = session
	}
	if blob != nil {
		byName["sqlite"] = blob
	}

	var defaultBackend Backend
	for _, name := range order {
		backend, ok := byName[name]
		if !ok {
			log.Warn("unknown backend in preference order", logging.String(logging.FieldBackend, name))
			continue
		}
		if !backend.Available() {
			log.Warn("backend failed availability probe",
				logging.String(logging.FieldBackend, backend.Name()),
				logging.String(logging.FieldEventType, "backend_unavailable"),
			)
			continue
		}
		defaultBackend = backend
		break
	}
	if defaultBackend == nil {
		log.Error("no storage backend available",
			logging.String(logging.FieldEventType, "storage_unavailable"),
			logging.String(logging.FieldErrorHint, "check workspace directory permissions"),
		)
		return nil, false
	}

	log.Info("selected default storage backend", logging.String(logging.FieldBackend, defaultBackend.Name()))

	f := &Facade{
		defaultBackend: defaultBackend,
		logger:         log,
	}
	if local != nil {
		f.local = local
	}
	if session != nil {
		f.session = session
	}
	if blob != nil {
		f.blob = blob
	}
	return f, true
}

// DefaultBackendName reports which backend the startup probe selected.
func (f *Facade) DefaultBackendName() string {
	return f.defaultBackend.Name()
}

// Get returns the value stored under key in the given class, or (nil, false)
// on absence, expiry, or backend error.
func (f *Facade) Get(ctx context.Context, class Class, key string) ([]byte, bool) {
	backend := f.backendFor(class)
	if backend == nil {
		return nil, false
	}
	value, ok, err := backend.Get(ctx, key)
	if err != nil {
		f.logger.Warn("get failed",
			logging.String(logging.FieldBackend, backend.Name()),
			logging.String(logging.FieldStorageKey, key),
			logging.Error(err),
		)
		return nil, false
	}
	return value, ok
}

// Set stores value under key in the given class, reporting success. A failed
// write to the blob class is retried once against the local class before the
// failure is reported.
func (f *Facade) Set(ctx context.Context, class Class, key string, value []byte, ttl time.Duration) bool {
	backend := f.backendFor(class)
	if backend == nil {
		return false
	}
	err := backend.Set(ctx, key, value, ttl)
	if err == nil {
		return true
	}
	f.logger.Warn("set failed",
		logging.String(logging.FieldBackend, backend.Name()),
		logging.String(logging.FieldStorageKey, key),
		logging.Error(err),
	)

	if class == ClassBlob && f.local != nil {
		if retryErr := f.local.Set(ctx, key, value, ttl); retryErr == nil {
			f.logger.Info("write recovered via local fallback", logging.String(logging.FieldStorageKey, key))
			return true
		}
	}

	logging.WarnWithContext(f.logger, "write failed on all backends", "storage_write_failed",
		logging.String(logging.FieldStorageKey, key),
		logging.String(logging.FieldErrorHint, "check free disk space in the workspace directory"),
	)
	return false
}

// Remove deletes key from the given class, reporting success.
func (f *Facade) Remove(ctx context.Context, class Class, key string) bool {
	backend := f.backendFor(class)
	if backend == nil {
		return false
	}
	if err := backend.Remove(ctx, key); err != nil {
		f.logger.Warn("remove failed",
			logging.String(logging.FieldBackend, backend.Name()),
			logging.String(logging.FieldStorageKey, key),
			logging.Error(err),
		)
		return false
	}
	return true
}

func (f *Facade) backendFor(class Class) Backend {
	switch class {
	case ClassLocal:
		if f.local != nil {
			return f.local
		}
	case ClassSession:
		if f.session != nil {
			return f.session
		}
	case ClassBlob:
		if f.blob != nil {
			return f.blob
		}
	}
	return f.defaultBackend
}

// GetJSON reads key from the façade and unmarshals it into T.
func GetJSON[T any](ctx context.Context, f *Facade, class Class, key string) (T, bool) {
	var out T
	data, ok := f.Get(ctx, class, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		f.logger.Warn("stored value is not valid JSON",
			logging.String(logging.FieldStorageKey, key),
			logging.Error(err),
		)
		return out, false
	}
	return out, true
}

// SetJSON marshals value and stores it under key.
func SetJSON[T any](ctx context.Context, f *Facade, class Class, key string, value T, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		f.logger.Warn("marshal value failed",
			logging.String(logging.FieldStorageKey, key),
			logging.Error(err),
		)
		return false
	}
	return f.Set(ctx, class, key, data, ttl)
}
