package resolver

import (
	"fmt"
	"os"

	"github.com/semlab/trainctl/internal/fsutil"
)

// Locate resolves a user-supplied config path into a single .hcl file.
// A directory is accepted when it contains exactly one .hcl file.
func Locate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrConfigNotFound, path, err)
	}
	if !info.IsDir() {
		return path, nil
	}

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrConfigNotFound, path, err)
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("%w: no .hcl file under %s", ErrConfigNotFound, path)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("%w: %s holds %d .hcl files, expected exactly one", ErrConfigParseError, path, len(files))
	}
}
