package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/logging"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

const (
	// StateKey is the fixed key the planner document is stored under.
	StateKey = "dayplan-state"
	// BackupKey holds the last document that decoded cleanly.
	BackupKey = "dayplan-state.bak"
	// CorruptKey keeps an undecodable document before it is overwritten.
	CorruptKey = "dayplan-state.corrupt"
)

// StateStore persists the planner document. It satisfies core.Persister.
type StateStore interface {
	Load() (*models.State, error)
	Save(state *models.State) error
	Path() string
}

type diskvStateStore struct {
	d    *diskv.Diskv
	dir  string
	lock stateLock
}

// NewStateStore creates a StateStore backed by diskv under dir.
func NewStateStore(dir string) StateStore {
	return &diskvStateStore{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			TempDir:      filepath.Join(dir, ".tmp"),
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		dir:  dir,
		lock: newStateLock(dir),
	}
}

// Path returns the file the document is written to.
func (s *diskvStateStore) Path() string {
	return filepath.Join(s.dir, StateKey)
}

// Load reads the planner document. A missing document yields (nil, nil). A
// corrupt document falls back to the backup copy when that decodes.
func (s *diskvStateStore) Load() (*models.State, error) {
	if !s.d.Has(StateKey) {
		return nil, nil
	}
	release, err := s.lock.acquire(lockShared)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	defer release()
	data, err := s.d.Read(StateKey)
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}
	st, err := DecodeState(data)
	if err == nil {
		return st, nil
	}
	logging.Warn("storage", "state document is unreadable, trying backup: %v", err)
	if s.d.Has(BackupKey) {
		if raw, rerr := s.d.Read(BackupKey); rerr == nil {
			if backup, berr := DecodeState(raw); berr == nil {
				return backup, nil
			}
		}
	}
	return nil, fmt.Errorf("loading state: %w", err)
}

// Save writes the planner document. The previous document is copied to the
// backup key first, or to the corrupt key when it no longer decodes.
func (s *diskvStateStore) Save(state *models.State) error {
	if state == nil {
		return fmt.Errorf("saving state: state is nil")
	}
	data, err := EncodeState(state)
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	release, err := s.lock.acquire(lockExclusive)
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	defer release()
	if s.d.Has(StateKey) {
		if prev, rerr := s.d.Read(StateKey); rerr == nil && !bytes.Equal(prev, data) {
			key := BackupKey
			if _, derr := DecodeState(prev); derr != nil {
				key = CorruptKey
			}
			if werr := s.d.Write(key, prev); werr != nil {
				logging.Debug("storage", "writing %s: %v", key, werr)
			}
		}
	}
	if err := s.d.Write(StateKey, data); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// EncodeState renders the document as indented JSON.
func EncodeState(state *models.State) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// DecodeState parses and validates a planner document. The document must be
// a JSON object whose collections are arrays; missing fields default to
// empty values. Every entity must carry an ID and text and every date must
// parse.
func DecodeState(data []byte) (*models.State, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: document is not a JSON object", core.ErrInvalidImport)
	}
	var st models.State
	if err := json.Unmarshal(trimmed, &st); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: field %q has the wrong type", core.ErrInvalidImport, typeErr.Field)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidImport, err)
	}
	st.Normalize()
	if err := core.ValidateState(st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ReadStateFile decodes a planner document from a file on disk.
func ReadStateFile(path string) (*models.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	st, err := DecodeState(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return st, nil
}
