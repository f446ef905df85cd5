// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MessagesHeader is the header of the raw messages file.
const MessagesHeader = "id,message,original,genre"

// CategoriesHeader is the header of the raw categories file.
const CategoriesHeader = "id,categories"

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// WriteFile writes lines to name inside a fresh temp dir and returns the path.
func WriteFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// WriteMessagesCSV writes a messages file with the standard header.
func WriteMessagesCSV(t *testing.T, rows ...string) string {
	t.Helper()
	return WriteFile(t, "messages.csv", append([]string{MessagesHeader}, rows...)...)
}

// WriteCategoriesCSV writes a categories file with the standard header.
func WriteCategoriesCSV(t *testing.T, rows ...string) string {
	t.Helper()
	return WriteFile(t, "categories.csv", append([]string{CategoriesHeader}, rows...)...)
}

// TempDBPath returns a database path inside a fresh temp dir.
func TempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "DisasterResponse.db")
}
