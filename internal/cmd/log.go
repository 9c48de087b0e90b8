package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// newLogger creates a consistent prefixed logger for all file-based commands.
//
// i and n are the zero-based ordinal and expected count.
func newLogger(i, n int, name string) *log.Logger {
	return log.New(os.Stderr, fmt.Sprintf(`[%d/%d] "%s" - `, i+1, n, filepath.Base(name)), 0)
}
