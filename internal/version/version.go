// Package version reports the build version and checks client
// compatibility.
package version

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/mod/semver"
)

// Dev is reported by builds without version information.
const Dev = "(devel)"

// Version is set via -ldflags at build time.
var Version = Dev

// Current returns Version, or the module version recorded by `go install`
// when no ldflags were given.
func Current() string {
	if Version != Dev {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && semver.IsValid(info.Main.Version) {
		return info.Main.Version
	}
	return Dev
}

// Compatible reports whether a client built at clientVersion can talk to a
// server at serverVersion. Versions must share the major version; within
// v0 the minor version must match as well. A development server accepts
// any valid client.
func Compatible(serverVersion, clientVersion string) (bool, error) {
	if !semver.IsValid(clientVersion) {
		return false, fmt.Errorf("invalid client version %q", clientVersion)
	}
	if !semver.IsValid(serverVersion) {
		return true, nil
	}
	if semver.Major(serverVersion) != semver.Major(clientVersion) {
		return false, nil
	}
	if semver.Major(serverVersion) == "v0" {
		return semver.MajorMinor(serverVersion) == semver.MajorMinor(clientVersion), nil
	}
	return true, nil
}
