package verify

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/prepub/internal/check"
)

// sizeChecker reads the main artifact's byte size and warns when it
// exceeds the configured threshold. The boundary is strict: an artifact
// of exactly the threshold passes, one byte more warns. It also records
// the artifact's blake3 digest for the run report.
type sizeChecker struct {
	pipeline *Pipeline
}

func (c *sizeChecker) Name() string {
	return "bundle-size"
}

func (c *sizeChecker) Check(ctx context.Context) *check.Result {
	entry := filepath.Join(c.pipeline.dir, c.pipeline.entrypoint())

	info, err := os.Stat(entry)
	if err != nil {
		return check.Warned(c.Name(), fmt.Sprintf("cannot stat artifact %s: %v", c.pipeline.entrypoint(), err))
	}

	size := info.Size()
	limit := c.pipeline.cfg.SizeLimitBytes()

	digest, err := hashFile(entry)
	if err == nil {
		c.pipeline.digest = digest
	}

	result := func() *check.Result {
		if size > limit {
			return check.Warned(c.Name(), fmt.Sprintf("artifact is %s, larger than the %d KB threshold", formatKB(size), c.pipeline.cfg.SizeLimitKB))
		}
		return check.Passed(c.Name(), fmt.Sprintf("artifact is %s", formatKB(size)))
	}()

	result.WithDetail("bytes", size).WithDetail("path", c.pipeline.entrypoint())
	if digest != "" {
		result.WithDetail("blake3", digest)
	}
	return result
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func formatKB(bytes int64) string {
	kb := float64(bytes) / 1024
	if kb < 1 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f KB", kb)
}
