package featureflags

import (
	"os"
	"strings"
)

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive)
func Enabled(name string) bool {
	return parse(os.Getenv("FLAG_"+strings.ToUpper(name)), false)
}

// EnabledDefault is Enabled with an explicit default for unset flags,
// for features that ship on.
func EnabledDefault(name string, def bool) bool {
	return parse(os.Getenv("FLAG_"+strings.ToUpper(name)), def)
}

func parse(v string, def bool) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
