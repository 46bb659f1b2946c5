// Package version reports the build version of the digest binary.
package version

import (
	"runtime/debug"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is set at build time with
// -ldflags "-X github.com/orris-inc/newsdigest/internal/shared/version.Version=1.2.3".
var Version = "dev"

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// Resolve picks the version to report: the linked-in value when it is valid
// semver, else the module version from build info, else "dev".
func Resolve(linked string, info *debug.BuildInfo) string {
	if v := Normalize(linked); semver.IsValid(v) {
		return v
	}
	if info != nil {
		if v := info.Main.Version; semver.IsValid(v) {
			return v
		}
	}
	return "dev"
}

// String returns the version of the running binary.
func String() string {
	info, _ := debug.ReadBuildInfo()
	return Resolve(Version, info)
}
