package logutils

import (
	"path/filepath"
	"strconv"
)

// ShortCallerFormatter trims the caller path down to the file name
func ShortCallerFormatter(_ uintptr, file string, line int) string {
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}
