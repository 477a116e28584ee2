package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestParseMountLine tests mount command line parsing
func TestParseMountLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		path string
		ok   bool
	}{
		{
			name: "NetworkShare",
			line: "//server/share on /Volumes/share type smbfs (rw)",
			path: "/Volumes/share",
			ok:   true,
		},
		{
			name: "LocalDisk",
			line: "/dev/disk1s1 on / type apfs (rw)",
			path: "/",
			ok:   true,
		},
		{
			name: "PathWithSpaces",
			line: "pcloud on /Users/me/pCloud Drive type fuse (rw)",
			path: "/Users/me/pCloud Drive",
			ok:   true,
		},
		{
			name: "MissingType",
			line: "something on /mnt/data",
			ok:   false,
		},
		{
			name: "Garbage",
			line: "not a mount line",
			ok:   false,
		},
		{
			name: "Empty",
			line: "",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path, ok := parseMountLine(tc.line)
			if ok != tc.ok {
				t.Fatalf("parseMountLine(%q) ok = %v, want %v", tc.line, ok, tc.ok)
			}
			if ok && path != tc.path {
				t.Errorf("parseMountLine(%q) = %q, want %q", tc.line, path, tc.path)
			}
		})
	}
}

// TestParseMountOutput verifies only network entries become candidates
func TestParseMountOutput(t *testing.T) {
	output := `/dev/disk1s1 on / type apfs (rw)
//server/share on /Volumes/share type smbfs (rw)
pcloud on /home/me/pCloud Drive type fuse.pcloud (rw,nosuid)
/dev/disk2s1 on /Volumes/Backup type hfs (rw)
`

	paths := parseMountOutput(strings.NewReader(output))

	want := map[string]bool{
		"/Volumes/share":        true,
		"/home/me/pCloud Drive": true,
	}

	if len(paths) != len(want) {
		t.Fatalf("parseMountOutput() = %v, want %d entries", paths, len(want))
	}
	for _, path := range paths {
		if !want[path] {
			t.Errorf("unexpected candidate path %q", path)
		}
	}
}

// TestProcMountsLister tests kernel mount table parsing
func TestProcMountsLister(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deconflict-mounts-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	table := `/dev/sda1 / ext4 rw,relatime 0 0
server:/export /mnt/nfs nfs rw,vers=4.2 0 0
pcloud /home/me/pCloud\040Drive fuse.pcloud rw,nosuid 0 0
tmpfs /tmp tmpfs rw 0 0
`
	tablePath := filepath.Join(tempDir, "mounts")
	if err := os.WriteFile(tablePath, []byte(table), 0644); err != nil {
		t.Fatalf("failed to write mount table: %v", err)
	}

	lister := &ProcMountsLister{Path: tablePath}
	paths, err := lister.ListCandidateMountPaths(context.Background())
	if err != nil {
		t.Fatalf("ListCandidateMountPaths() error = %v", err)
	}

	want := map[string]bool{
		"/mnt/nfs":              true,
		"/home/me/pCloud Drive": true,
	}
	if len(paths) != len(want) {
		t.Fatalf("got %v, want %d entries", paths, len(want))
	}
	for _, path := range paths {
		if !want[path] {
			t.Errorf("unexpected candidate path %q", path)
		}
	}
}

// TestHomeFolderLister tests cloud folder globbing under a fake home
func TestHomeFolderLister(t *testing.T) {
	home, err := os.MkdirTemp("", "deconflict-home-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(home)

	for _, dir := range []string{
		"Dropbox",
		"Library/CloudStorage/OneDrive-Personal",
		"Documents",
	} {
		if err := os.MkdirAll(filepath.Join(home, dir), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	// Files matching a pattern must not be listed
	if err := os.WriteFile(filepath.Join(home, "Dropbox.log"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	lister := &HomeFolderLister{Home: home}
	paths, err := lister.ListCandidateMountPaths(context.Background())
	if err != nil {
		t.Fatalf("ListCandidateMountPaths() error = %v", err)
	}

	set := make(map[string]bool, len(paths))
	for _, path := range paths {
		set[path] = true
	}

	if !set[filepath.Join(home, "Dropbox")] {
		t.Errorf("Dropbox not detected, got %v", paths)
	}
	if !set[filepath.Join(home, "Library/CloudStorage/OneDrive-Personal")] {
		t.Errorf("CloudStorage container not detected, got %v", paths)
	}
	if set[filepath.Join(home, "Documents")] {
		t.Error("Documents should not be a cloud folder")
	}
}

// TestCompositeLister verifies union, deduplication and failure tolerance
func TestCompositeLister(t *testing.T) {
	lister := &CompositeLister{Listers: []MountLister{
		&staticLister{paths: []string{"/mnt/a", "/mnt/b"}},
		&staticLister{err: os.ErrPermission},
		&staticLister{paths: []string{"/mnt/b", "/mnt/c"}},
	}}

	paths, err := lister.ListCandidateMountPaths(context.Background())
	if err != nil {
		t.Fatalf("ListCandidateMountPaths() error = %v", err)
	}

	want := []string{"/mnt/a", "/mnt/b", "/mnt/c"}
	if len(paths) != len(want) {
		t.Fatalf("got %v, want %v", paths, want)
	}
	set := make(map[string]bool, len(paths))
	for _, path := range paths {
		set[path] = true
	}
	for _, path := range want {
		if !set[path] {
			t.Errorf("missing path %q in %v", path, paths)
		}
	}
}

// TestUnescapeMountPath tests octal escape decoding
func TestUnescapeMountPath(t *testing.T) {
	cases := map[string]string{
		`/home/me/pCloud\040Drive`: "/home/me/pCloud Drive",
		`/plain/path`:              "/plain/path",
		`/tab\011here`:             "/tab\there",
	}

	for in, want := range cases {
		if got := unescapeMountPath(in); got != want {
			t.Errorf("unescapeMountPath(%q) = %q, want %q", in, got, want)
		}
	}
}
