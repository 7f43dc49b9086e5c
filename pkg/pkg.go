//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version holds the raw contents of the VERSION file embedded at build time.
//
//go:embed VERSION
var version string

// Version is the semantic version of the litweb module, trimmed of the
// surrounding whitespace carried by the VERSION file.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text, default config paths, and is accepted
	// as a region tag (=begin litweb).
	Name = "litweb"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Literate documentation preprocessor"
	// PathEnv names the environment variable holding the PATH-like list of
	// directories searched for included files.
	PathEnv = "LITWEB_PATH"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
