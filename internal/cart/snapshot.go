package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// SnapshotStore persists the cart mirror as a single named JSON blob.
// The whole state is rewritten on every mutation and read back once at
// startup; last write wins.
type SnapshotStore struct {
	mu   sync.Mutex
	path string
}

type snapshotFile struct {
	Carts map[string][]Line `json:"carts"`
}

// NewSnapshotStore builds a store writing to the given path.
func NewSnapshotStore(path string) (*SnapshotStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	return &SnapshotStore{path: path}, nil
}

// Load reads the blob. A missing file yields an empty state; a corrupt
// blob is an error the caller may choose to discard.
func (s *SnapshotStore) Load() (map[uuid.UUID][]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[uuid.UUID][]Line{}, nil
		}
		return nil, fmt.Errorf("read cart snapshot: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}

	state := make(map[uuid.UUID][]Line, len(file.Carts))
	for key, lines := range file.Carts {
		userID, err := uuid.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("decode cart snapshot key %q: %w", key, err)
		}
		state[userID] = lines
	}
	return state, nil
}

// Save replaces the blob with the provided state. The write goes to a
// temp file first and is renamed into place so readers never observe a
// partial blob.
func (s *SnapshotStore) Save(state map[uuid.UUID][]Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := snapshotFile{Carts: make(map[string][]Line, len(state))}
	for userID, lines := range state {
		if lines == nil {
			lines = []Line{}
		}
		file.Carts[userID.String()] = lines
	}

	raw, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".cart-snapshot-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cart snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cart snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cart snapshot: %w", err)
	}
	return nil
}
