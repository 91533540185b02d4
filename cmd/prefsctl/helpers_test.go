package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CreativeUnicorns/prefseditor"
	"github.com/CreativeUnicorns/prefseditor/encryption"
)

// useTempStorage points the global flags at a fresh SQLite database.
func useTempStorage(t *testing.T) string {
	t.Helper()
	t.Setenv(encryption.EnvKeyName, "")

	path := filepath.Join(t.TempDir(), "prefs.db")
	storageKind = "sqlite"
	dsn = path
	redisAddr = ""
	profile = prefseditor.DefaultProfile
	verbose = false
	jsonOut = false
	getShowType = false
	treeSearch = ""
	treeChanged = false
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	<-done

	return buf.String(), fnErr
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
