package gitdiff

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// driverName is the custom diff driver the attributes file binds binary
// extensions to. The driver's textconv hook is configured per invocation.
const driverName = "dircomp"

// writeAttrsFile writes a temporary git attributes file routing every given
// extension through the custom diff driver. It returns the file path and a
// cleanup func that must run on every exit path. The uuid suffix keeps
// concurrent runs from colliding.
func writeAttrsFile(dir string, extensions []string) (string, func(), error) {
	var sb strings.Builder
	for _, ext := range extensions {
		fmt.Fprintf(&sb, "*%s diff=%s\n", ext, driverName)
	}

	path := filepath.Join(dir, fmt.Sprintf("attrs-%s", uuid.NewString()))
	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return "", nil, fmt.Errorf("failed to write attributes file: %w", err)
	}

	return path, func() { os.Remove(path) }, nil
}
