package dupecheck

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	globalVerboseLevel int
	debugFlags         map[string]bool

	// diagWriter receives all diagnostic output. It is distinct from the
	// report stream so that the duplicate report remains machine-parseable.
	diagWriter io.Writer = os.Stderr
)

// SetVerboseLevel sets the global verbose level
func SetVerboseLevel(level int) {
	globalVerboseLevel = level
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	return globalVerboseLevel
}

// SetDiagnosticWriter redirects diagnostic output; nil restores stderr
func SetDiagnosticWriter(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	diagWriter = w
}

// VerboseLog logs a message at the specified verbose level
func VerboseLog(level int, format string, args ...interface{}) {
	if globalVerboseLevel >= level {
		fmt.Fprintf(diagWriter, "[VERBOSE-%d] ", level)
		fmt.Fprintf(diagWriter, format, args...)
		if !strings.HasSuffix(format, "\n") {
			fmt.Fprintf(diagWriter, "\n")
		}
	}
}

// Warn logs a warning to the diagnostic stream regardless of verbose level
func Warn(format string, args ...interface{}) {
	fmt.Fprintf(diagWriter, "Warning: ")
	fmt.Fprintf(diagWriter, format, args...)
	if !strings.HasSuffix(format, "\n") {
		fmt.Fprintf(diagWriter, "\n")
	}
}

// SetDebugFlags sets the debug flags from a comma-separated string,
// e.g. "scan,cache"
func SetDebugFlags(flagsStr string) {
	debugFlags = make(map[string]bool)
	for _, flag := range strings.Split(flagsStr, ",") {
		flag = strings.ToLower(strings.TrimSpace(flag))
		if flag != "" {
			debugFlags[flag] = true
		}
	}
}

// IsDebugEnabled returns true if the specified debug flag is enabled
func IsDebugEnabled(flag string) bool {
	if debugFlags == nil {
		return false
	}
	return debugFlags[strings.ToLower(flag)]
}
