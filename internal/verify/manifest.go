package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/prepub/internal/check"
	"github.com/felixgeelhaar/prepub/internal/npm"
)

// manifestChecker verifies package.json parses and carries the fields
// npm needs to install the package as a CLI. On success it stores the
// manifest on the pipeline for the artifact checks that follow.
type manifestChecker struct {
	pipeline *Pipeline
}

func (c *manifestChecker) Name() string {
	return "manifest"
}

func (c *manifestChecker) Check(ctx context.Context) *check.Result {
	manifest, err := npm.Load(c.pipeline.dir)
	if err != nil {
		return check.Failed(c.Name(), err.Error())
	}

	if missing := manifest.MissingFields(); len(missing) > 0 {
		return check.Failed(c.Name(), fmt.Sprintf("package.json missing required field(s): %s", strings.Join(missing, ", "))).
			WithDetail("missing", missing)
	}

	c.pipeline.manifest = manifest

	return check.Passed(c.Name(), fmt.Sprintf("%s@%s declares name, version, bin, main", manifest.Name, manifest.Version)).
		WithDetail("name", manifest.Name).
		WithDetail("version", manifest.Version).
		WithDetail("entrypoint", manifest.EntryPoint())
}
