package nbpublish

import (
	"fmt"
	"os"
)

// writeTempFile creates a temporary file with the given content and
// extension. Returns the file path and a cleanup function.
func writeTempFile(content, extension string) (path string, cleanup func(), err error) {
	tmpFile, err := os.CreateTemp("", "nbpublish-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}
