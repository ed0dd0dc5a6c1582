package logsink

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// WriteJSON writes payload as indented JSON to <dir>/<name>. Artifacts are
// written once per run; an existing file is replaced.
func WriteJSON(dir, name string, payload interface{}) error {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), append(b, '\n'), 0o600)
}

// WriteHint stores an operator note (e.g. where the master seed came from)
// next to the run artifacts.
func WriteHint(dir, hint string) error {
	if hint == "" {
		return nil
	}
	return os.WriteFile(filepath.Join(dir, "hint.txt"), []byte(hint), 0o600)
}
