// Package version carries build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/elmbrunch/internal/version.Version=v0.4.0"
package version

import "fmt"

// Version is the release of elmbrunch and of the elm-brunch plugin it registers.
var Version = "dev"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("elmbrunch %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
