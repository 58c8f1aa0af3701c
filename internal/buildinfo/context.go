// Package buildinfo carries build-time metadata injected through ldflags,
// kept apart from user configuration.
package buildinfo

import (
	"fmt"
	"runtime"
)

// UnknownValue is reported for metadata the build did not set
const UnknownValue = "unknown"

// BuildInfo provides read access to build metadata
type BuildInfo interface {
	Version() string
	BuildDate() string
}

// Context holds the version and build date of the running binary
type Context struct {
	version   string
	buildDate string
}

// NewContext creates a Context. Empty values read back as UnknownValue.
func NewContext(version, buildDate string) *Context {
	return &Context{version: version, buildDate: buildDate}
}

// Version returns the release tag of the build
func (c *Context) Version() string {
	if c == nil || c.version == "" {
		return UnknownValue
	}
	return c.version
}

// BuildDate returns when the binary was built
func (c *Context) BuildDate() string {
	if c == nil || c.buildDate == "" {
		return UnknownValue
	}
	return c.buildDate
}

// String formats the metadata for the version command
func (c *Context) String() string {
	return fmt.Sprintf("%s (built %s, %s %s/%s)",
		c.Version(), c.BuildDate(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
