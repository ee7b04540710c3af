// Package clipboard wraps the system clipboard for transcript delivery
package clipboard

import (
	"strings"

	"github.com/atotto/clipboard"
)

// CopyTranscript places recognized text on the system clipboard, trimming
// the trailing newline the recognizer appends.
func CopyTranscript(text string) error {
	return clipboard.WriteAll(strings.TrimRight(text, "\r\n"))
}

// GetText retrieves text from the system clipboard
func GetText() (string, error) {
	return clipboard.ReadAll()
}
