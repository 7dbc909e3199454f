package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = errors.New("key not found")
	// ErrNotInitialized is returned by Load when the backing store does not exist yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'studyplan init' first")
	// ErrNotLoaded is returned by data operations before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is a small durable key/value store. The application keeps its
// whole record under a single key, so providers only need whole-value
// reads and writes.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Data
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error

	// Utils
	GetConfigPath() string
}

// Revision is a previous value of a key, kept by providers that record
// history.
type Revision struct {
	ID         int64     `json:"id"`
	Key        string    `json:"key"`
	Value      []byte    `json:"-"`
	Size       int       `json:"size"`
	ReplacedAt time.Time `json:"replaced_at"`
}

// Historian is implemented by providers that keep overwritten values.
type Historian interface {
	History(key string, limit int) ([]Revision, error)
}

// MaxRevisions bounds the history kept per key.
const MaxRevisions = 20
