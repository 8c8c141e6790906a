package config

import "fmt"

// Verbose indicates whether verbose logging is enabled
var Verbose bool

// VerboseLog prints user-facing progress information if verbose mode is enabled
func VerboseLog(format string, args ...interface{}) {
	if Verbose {
		fmt.Printf("[INFO] "+format+"\n", args...)
	}
}

// DebugLog prints debug information if verbose mode is enabled
func DebugLog(format string, args ...interface{}) {
	if Verbose {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}
