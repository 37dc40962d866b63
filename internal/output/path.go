package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	// ErrSensitivePath is returned for destinations inside system directories.
	ErrSensitivePath = errors.New("refusing to write into a system directory")
	// ErrNotDirectory is returned when the chosen destination is not an
	// existing directory.
	ErrNotDirectory = errors.New("destination is not an existing directory")
)

var (
	unixSensitive    = []string{"/etc", "/usr", "/bin", "/sbin", "/root", "/boot", "/dev", "/sys"}
	windowsSensitive = []string{`c:\windows`, `c:\program files`, `c:\users`}
)

// IsSensitivePath reports whether path lies inside a protected system
// directory. Matching is on whole path components, so /etcetera is allowed.
func IsSensitivePath(path string) bool {
	return isSensitive(path, runtime.GOOS)
}

func isSensitive(path, goos string) bool {
	abs, err := filepath.Abs(expandPath(path))
	if err != nil {
		abs = path
	}

	roots, sep := unixSensitive, "/"
	if goos == "windows" {
		roots, sep = windowsSensitive, `\`
		abs = strings.ReplaceAll(abs, "/", `\`)
	}
	return matchesRoot(strings.ToLower(abs), roots, sep)
}

func matchesRoot(abs string, roots []string, sep string) bool {
	for _, root := range roots {
		if abs == root || strings.HasPrefix(abs, root+sep) {
			return true
		}
	}
	return false
}

// ResolveDestination returns the file path for filename inside dir. An empty
// dir means the current working directory, which is trusted as-is. A custom
// dir must exist and must not be sensitive.
func ResolveDestination(dir, filename string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		return filepath.Join(cwd, filename), nil
	}

	dir = expandPath(strings.TrimSpace(dir))
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	if IsSensitivePath(dir) {
		return "", fmt.Errorf("%w: %s", ErrSensitivePath, dir)
	}
	return filepath.Join(dir, filename), nil
}
