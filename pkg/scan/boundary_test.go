package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// TestClassifierCloudMounts verifies detected cloud mounts are pruned
func TestClassifierCloudMounts(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deconflict-boundary-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cloudDir := filepath.Join(tempDir, "Dropbox")
	plainDir := filepath.Join(tempDir, "projects")
	for _, dir := range []string{cloudDir, plainDir, filepath.Join(cloudDir, "sub")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
	}

	lister := &staticLister{paths: []string{cloudDir}}
	classifier := NewClassifier(context.Background(), tempDir, Options{Recursive: true}, lister)

	cases := []struct {
		path     string
		excluded bool
	}{
		{cloudDir, true},
		{filepath.Join(cloudDir, "sub"), true},
		{plainDir, false},
		{tempDir, false},
	}

	for _, tc := range cases {
		info, err := os.Stat(tc.path)
		if err != nil {
			t.Fatalf("failed to stat %s: %v", tc.path, err)
		}

		excluded, reason := classifier.Exclude(tc.path, info)
		if excluded != tc.excluded {
			t.Errorf("Exclude(%s) = %v, want %v", tc.path, excluded, tc.excluded)
		}
		if excluded && reason != ReasonCloudStorage {
			t.Errorf("Exclude(%s) reason = %q, want %q", tc.path, reason, ReasonCloudStorage)
		}
	}
}

// TestClassifierPrefixNotWithin guards against sibling prefix confusion
func TestClassifierPrefixNotWithin(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deconflict-boundary-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cloudDir := filepath.Join(tempDir, "Drive")
	siblingDir := filepath.Join(tempDir, "DriveBackup")
	for _, dir := range []string{cloudDir, siblingDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
	}

	lister := &staticLister{paths: []string{cloudDir}}
	classifier := NewClassifier(context.Background(), tempDir, Options{Recursive: true}, lister)

	info, err := os.Stat(siblingDir)
	if err != nil {
		t.Fatalf("failed to stat: %v", err)
	}
	if excluded, _ := classifier.Exclude(siblingDir, info); excluded {
		t.Error("sibling directory sharing a name prefix should not be excluded")
	}
}

// TestClassifierCrossDevice verifies cross-device mode disables all checks
func TestClassifierCrossDevice(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deconflict-boundary-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cloudDir := filepath.Join(tempDir, "Dropbox")
	if err := os.MkdirAll(cloudDir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	// The lister must not even be consulted in cross-device mode
	lister := &staticLister{paths: []string{cloudDir}}
	classifier := NewClassifier(context.Background(), tempDir, Options{Recursive: true, CrossDevice: true}, lister)

	info, err := os.Stat(cloudDir)
	if err != nil {
		t.Fatalf("failed to stat: %v", err)
	}
	if excluded, _ := classifier.Exclude(cloudDir, info); excluded {
		t.Error("cross-device mode should not exclude anything")
	}
}

// TestClassifierListerFailure verifies detection failures degrade silently
func TestClassifierListerFailure(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deconflict-boundary-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	lister := &staticLister{err: os.ErrPermission}
	classifier := NewClassifier(context.Background(), tempDir, Options{Recursive: true}, lister)

	info, err := os.Stat(tempDir)
	if err != nil {
		t.Fatalf("failed to stat: %v", err)
	}
	if excluded, _ := classifier.Exclude(tempDir, info); excluded {
		t.Error("a failed mount query should not exclude ordinary directories")
	}
}

// TestClassifierSameDevice verifies ordinary subdirectories on the root
// device are never treated as mount points
func TestClassifierSameDevice(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deconflict-boundary-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	subDir := filepath.Join(tempDir, "sub")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	classifier := NewClassifier(context.Background(), tempDir, Options{Recursive: true}, &staticLister{})

	info, err := os.Stat(subDir)
	if err != nil {
		t.Fatalf("failed to stat: %v", err)
	}
	if excluded, reason := classifier.Exclude(subDir, info); excluded {
		t.Errorf("same-device subdirectory excluded as %q", reason)
	}
}

// TestPathWithin tests the containment helper
func TestPathWithin(t *testing.T) {
	cases := []struct {
		path, root string
		want       bool
	}{
		{"/a/b/c", "/a/b", true},
		{"/a/b", "/a/b", true},
		{"/a/bc", "/a/b", false},
		{"/a", "/a/b", false},
		{"/a/b/c", "/a/b/", true},
	}

	for _, tc := range cases {
		if got := pathWithin(tc.path, tc.root); got != tc.want {
			t.Errorf("pathWithin(%q, %q) = %v, want %v", tc.path, tc.root, got, tc.want)
		}
	}
}
