// Package sysutil holds small process-level helpers shared by the config
// loader and the schoolsd command.
package sysutil

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// SetLogLevel sets the global zerolog level from LOG_LEVEL. Unknown values
// fall back to info.
func SetLogLevel(lvl string) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info", "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// IsTruthy reports whether an environment value reads as true:
// "1", "true", "yes", "y" or "on", case-insensitive.
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// Accepted environment names for the Supabase project, in priority order.
// The NEXT_PUBLIC_ forms let a shared .env from the web frontend be reused.
var (
	supabaseURLEnv = []string{"SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"}
	supabaseKeyEnv = []string{"SUPABASE_KEY", "SUPABASE_SERVICE_ROLE_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"}
)

// EnvFirst returns the value of the first environment variable in names that
// is set to something non-blank, together with that variable's name.
func EnvFirst(names ...string) (val, name string) {
	for _, n := range names {
		if v := os.Getenv(n); strings.TrimSpace(v) != "" {
			return v, n
		}
	}
	return "", ""
}

// SupabaseURL resolves the project URL without a trailing slash.
func SupabaseURL() string {
	v, _ := EnvFirst(supabaseURLEnv...)
	return strings.TrimRight(strings.TrimSpace(v), "/")
}

// SupabaseKey resolves the API key and reports which variable supplied it.
// An anon key only works when row-level security allows inserts.
func SupabaseKey() (key, source string) {
	v, n := EnvFirst(supabaseKeyEnv...)
	return strings.TrimSpace(v), n
}
