// Package buildinfo holds version metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/orthonet/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/orthonet/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/orthonet/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns a multi-line summary for `orthonet version`.
func String() string {
	return fmt.Sprintf("orthonet %s\ncommit: %s\nbuilt: %s\ngo: %s %s/%s",
		Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Template is the cobra version template used by --version.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Version, Commit, Date)
}

// UserAgent identifies the server in response headers.
func UserAgent() string {
	return "orthonet/" + Version
}
