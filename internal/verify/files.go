package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/prepub/internal/check"
)

// fileChecker verifies a fixed list of repository-relative paths exist.
// Any missing path is fatal.
type fileChecker struct {
	name  string
	dir   string
	paths []string
	kind  string
}

func (c *fileChecker) Name() string {
	return c.name
}

func (c *fileChecker) Check(ctx context.Context) *check.Result {
	var missing []string
	for _, path := range c.paths {
		if _, err := os.Stat(filepath.Join(c.dir, path)); err != nil {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		noun := c.kind
		if len(missing) > 1 {
			noun += "s"
		}
		return check.Failed(c.name, fmt.Sprintf("missing %s: %s", noun, strings.Join(missing, ", "))).
			WithDetail("missing", missing)
	}

	return check.Passed(c.name, fmt.Sprintf("all %d %s(s) present", len(c.paths), c.kind)).
		WithDetail("paths", c.paths)
}
