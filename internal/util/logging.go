// Package util provides logging helpers, file system locations, key
// derivation for the record cache, and lookup query parsing.
package util

import "log"

// LogError logs an error with context if it is non-nil.
func LogError(context string, err error) {
	if err != nil {
		log.Printf("%s: %v", context, err)
	}
}

// LogInfo records a notable event that is not an error.
func LogInfo(context, format string, args ...any) {
	log.Printf(context+": "+format, args...)
}
