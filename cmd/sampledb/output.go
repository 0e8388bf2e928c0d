package main

import (
	"fmt"
	"os"
)

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...any) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError writes an error message to stderr and exits.
func exitWithError(code int, format string, args ...any) {
	os.Exit(outputError(code, format, args...))
}
