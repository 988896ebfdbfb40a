package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/titanous/json5"

	"github.com/conn-castle/quizmodels/internal/fsutil"
)

// Decode parses settings data. The host application writes strict JSON, but
// hand-edited files often carry comments or trailing commas, so JSON5 is accepted.
func Decode(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("settings data is empty")
	}
	var v any
	if err := json5.Unmarshal(trimmed, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Encode renders settings the way the host application persists them.
func Encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ReadFile loads and decodes a settings file.
func ReadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}

// WriteFile encodes v and atomically replaces path, keeping the existing file mode.
func WriteFile(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return fsutil.WriteFileAtomic(path, data, perm)
}
