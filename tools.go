//go:build tools

package loadingcache

// This file pins the version of development tooling used to lint this
// module, following the common tools.go convention: blank-import a
// tool-only dependency so `go mod tidy` keeps it in go.mod without it
// ever being part of a real build.
import (
	_ "github.com/bool64/dev"
)
