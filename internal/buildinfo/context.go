// Package buildinfo carries build-time metadata injected through ldflags
package buildinfo

import "fmt"

const unknown = "unknown"

// Context contains build-time metadata that is not user-configurable
type Context struct {
	// Version holds the Git version tag from build
	Version string

	// BuildDate is the time when the binary was built
	BuildDate string
}

// GetVersion returns the version or "unknown"
func (c *Context) GetVersion() string {
	if c == nil || c.Version == "" {
		return unknown
	}
	return c.Version
}

// GetBuildDate returns the build date or "unknown"
func (c *Context) GetBuildDate() string {
	if c == nil || c.BuildDate == "" {
		return unknown
	}
	return c.BuildDate
}

// String renders the version line printed by the CLI
func (c *Context) String() string {
	return fmt.Sprintf("trapstats %s (built %s)", c.GetVersion(), c.GetBuildDate())
}
