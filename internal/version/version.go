// Package version reports the build identity of the todos binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/todos/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/todos/internal/version.Commit=abc123"
//
// Unset values are filled from the Go build info, falling back to "dev".
var (
	Version = ""
	Commit  = ""
)

// BuildInfo describes a binary for `todos version` and the client User-Agent
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		Version, Commit = fromBuildInfo(info, Version, Commit)
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo fills whichever of version and commit are empty
func fromBuildInfo(info *debug.BuildInfo, version, commit string) (string, string) {
	if version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}

	var revision, modified string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		}
	}
	if commit == "" && revision != "" {
		if len(revision) > 7 {
			revision = revision[:7]
		}
		commit = revision
		if modified == "true" {
			commit += "-dirty"
		}
	}
	return version, commit
}

// Get returns the build identity of the running binary
func Get() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Full returns the version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent returns the User-Agent sent by the HTTP client
func UserAgent() string {
	return "todos/" + strings.TrimPrefix(Version, "v")
}
