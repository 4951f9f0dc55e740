// Package env reads configuration out of a slice of "KEY=VALUE" strings,
// the same shape as os.Environ(), so that code that needs default
// configuration from the environment can be tested against a fake
// environment instead of the process-wide one.
package env

import "strings"

// Get gets an environment variable value from a set of environment variables.
// It returns the empty string if the variable is unset.
func Get(env []string, name string) string {
	value, _ := Lookup(env, name)
	return value
}

// Lookup gets an environment variable value from a set of environment
// variables, reporting whether it was present at all so that callers can
// distinguish an unset variable from one explicitly set to the empty string.
func Lookup(env []string, name string) (string, bool) {
	var value string
	var ok bool
	for _, s := range env {
		n, v, found := strings.Cut(s, "=")
		if found && n == name {
			value, ok = v, true
		}
	}
	return value, ok
}
