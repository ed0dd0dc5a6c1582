package logsink

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MakeModuleDirs creates the per-run output directory
// logs/<module>/<DD.MM.YYYY>/<module>_<HH-MM-SS> and returns its path.
func MakeModuleDirs(base, module string) (string, error) {
	now := time.Now()
	date := now.Format("02.01.2006")
	timeDir := now.Format("15-04-05")

	dir := filepath.Join(base, module, date, module+"_"+timeDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	return dir, nil
}
