package version

import "fmt"

// Version, GitCommit, and BuildDate are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/netsim-forge/netsim/pkg/version.Version=v1.0.0 \
//	  -X github.com/netsim-forge/netsim/pkg/version.GitCommit=abc1234 \
//	  -X github.com/netsim-forge/netsim/pkg/version.BuildDate=2026-07-30"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns a single-line human-readable version string.
func Info() string {
	return fmt.Sprintf("netsim %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
