package keystore

import (
	"os"
	"path/filepath"
	"strings"
)

// AppendJSONL appends one JSON blob as a line to path, creating the parent
// directory on first use.
func AppendJSONL(path string, jsonBlob []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(jsonBlob); err != nil {
		return err
	}
	_, err = f.Write([]byte("\n"))
	return err
}

// WriteKeyFile stores one keystore V3 blob as files/<address>.json under dir.
func WriteKeyFile(dir, address string, blob []byte) error {
	filesDir := filepath.Join(dir, "files")
	if err := os.MkdirAll(filesDir, 0o755); err != nil {
		return err
	}
	name := strings.ToLower(strings.TrimPrefix(address, "0x")) + ".json"
	return os.WriteFile(filepath.Join(filesDir, name), blob, 0o600)
}
