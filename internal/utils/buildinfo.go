package utils

import "runtime/debug"

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
)

// applicationVersion is set at link time with
// -ldflags "-X github.com/temirov/treedoc/internal/utils.applicationVersion=v1.2.3".
var applicationVersion string

// GetApplicationVersion returns the link-time version, then the module version
// recorded in the build info, then "unknown".
func GetApplicationVersion() string {
	if applicationVersion != "" {
		return applicationVersion
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}
	return unknownVersion
}
