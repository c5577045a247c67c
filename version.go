package gatlab

import _ "embed"

// Version is the release version of gatlab, read from the VERSION file.
//
//go:embed VERSION
var Version string
