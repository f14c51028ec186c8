package filex

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupSuffix is appended to a collection file that failed to decode.
const BackupSuffix = ".bak"

// JSONFile is one JSON document holding a whole collection. Load and Store
// always move the full value; there are no partial updates.
type JSONFile[T any] struct {
	Path string
	// OnCorrupt, when set, is told about a file that was moved aside.
	OnCorrupt func(path, backup string, cause error)
}

// Load decodes the file. A missing file yields the zero value. A file that
// cannot be decoded is renamed to Path+BackupSuffix and also yields the zero
// value, so a damaged store degrades to empty instead of failing every call.
func (f JSONFile[T]) Load() (T, error) {
	var zero T

	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", f.Path, err)
	}
	if len(data) == 0 {
		return zero, nil
	}

	var v T
	if decodeErr := json.Unmarshal(data, &v); decodeErr != nil {
		backup := f.Path + BackupSuffix
		if err := os.Rename(f.Path, backup); err != nil {
			return zero, fmt.Errorf("quarantine %s: %w", f.Path, err)
		}
		if f.OnCorrupt != nil {
			f.OnCorrupt(f.Path, backup, decodeErr)
		}
		return zero, nil
	}
	return v, nil
}

// Store replaces the file with v, atomically.
func (f JSONFile[T]) Store(v T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.Path, err)
	}
	return WriteFileAtomic(f.Path, data, 0o660)
}
