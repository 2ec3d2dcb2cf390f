package output

import "time"

// ConfigPort reads runtime configuration. Missing keys fall back to
// the supplied default; MustGet terminates the process.
type ConfigPort interface {
	Get(key string) string
	MustGet(key string) string
	GetWithDefault(key string, defaultValue string) string
	GetBool(key string, defaultValue bool) bool
	GetInt(key string, defaultValue int) int
	GetDuration(key string, defaultValue time.Duration) time.Duration
}
