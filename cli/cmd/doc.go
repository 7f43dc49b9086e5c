// Package cmd implements the litweb subcommands: run, list, and init.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file written by init.
	ConfigIdentifier = "config"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default expansion depth limit.
	MaxDepthIdentifier = "maxDepth"

	// PathEnvIdentifier is the kong variable identifier containing the name of
	// the environment variable listing include directories.
	PathEnvIdentifier = "pathEnv"

	// MarkerIdentifier is the kong variable identifier containing the default
	// directive marker.
	MarkerIdentifier = "marker"
)
