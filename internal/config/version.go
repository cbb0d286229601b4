package config

import (
	"os"
	"runtime/debug"
	"strings"
)

// fallbackVersion is reported when no other source names a version
const fallbackVersion = "0.1.0"

// GetVersion returns the version from APP_VERSION, then the version
// stamped at build time, then the module build info
func GetVersion(buildVersion string) string {
	if envVersion := strings.TrimSpace(os.Getenv("APP_VERSION")); envVersion != "" {
		return envVersion
	}
	if buildVersion != "" && buildVersion != "dev" {
		return buildVersion
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return strings.TrimPrefix(v, "v")
		}
	}
	return fallbackVersion
}
