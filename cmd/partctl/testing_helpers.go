package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

// useTempState points the global config at a fresh state file and resets flags.
func useTempState(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	cfg = &Config{
		State:      path,
		Partitions: []int{100, 150, 200, 250, 300},
		Policy:     "first-fit",
		Lang:       "en",
	}
	log = logrus.New()
	log.SetOutput(&bytes.Buffer{})

	quiet = false
	verbose = false
	jsonOut = false
	initForce = false
	runDryRun = false
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout
	<-done

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("output is not valid JSON: %v\nOutput: %s", err, output)
	}
}

// mustRun runs fn with captured output and fails the test on error.
func mustRun(t *testing.T, fn func() error) string {
	t.Helper()
	out, err := captureOutput(t, fn)
	if err != nil {
		t.Fatalf("unexpected error: %v\nOutput: %s", err, out)
	}
	return out
}
