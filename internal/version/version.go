// Package version holds build information for the ritc and recorder
// binaries, injected with ldflags:
//
//	go build -ldflags "-X github.com/rickgao/rit-client/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/rit-client/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/rit-client/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns e.g. "1.0.0 (abc1234) built 2024-01-01T00:00:00Z".
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}

// UserAgent is sent by the API client on every request.
func UserAgent() string {
	if Commit == "unknown" {
		return "rit-client/" + Version
	}
	return "rit-client/" + Version + "+" + Commit
}
