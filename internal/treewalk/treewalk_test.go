package treewalk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func collect(t *testing.T, root, name string) []string {
	t.Helper()
	var found []string
	for path, err := range Find(root, name) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		found = append(found, path)
	}
	return found
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFind_NotADirectory(t *testing.T) {
	for _, root := range []string{
		filepath.Join(t.TempDir(), "missing"),
		func() string {
			p := filepath.Join(t.TempDir(), "plainfile")
			touch(t, p)
			return p
		}(),
	} {
		gotErr := false
		for _, err := range Find(root, "metadata.xml") {
			if err == nil {
				t.Fatalf("expected error for root %q", root)
			}
			if !errors.Is(err, ErrNotDirectory) {
				t.Errorf("expected ErrNotDirectory, got %v", err)
			}
			gotErr = true
		}
		if !gotErr {
			t.Errorf("expected an error yield for root %q", root)
		}
	}
}

func TestFind_EmptyDirectoryYieldsNothing(t *testing.T) {
	if found := collect(t, t.TempDir(), "metadata.xml"); len(found) != 0 {
		t.Errorf("expected no matches, got %v", found)
	}
}

func TestFind_StopsAtFirstMatchPerLevel(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "metadata.xml"))
	touch(t, filepath.Join(root, "sub", "metadata.xml"))

	found := collect(t, root, "metadata.xml")
	if len(found) != 1 {
		t.Fatalf("expected 1 match, got %d: %v", len(found), found)
	}
	if found[0] != filepath.Join(root, "metadata.xml") {
		t.Errorf("expected root-level match, got %s", found[0])
	}
}

func TestFind_DescendsIntoSiblingSubtrees(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a", "metadata.xml"))
	touch(t, filepath.Join(root, "b", "deep", "metadata.xml"))
	touch(t, filepath.Join(root, "c", "other.xml"))

	found := collect(t, root, "metadata.xml")
	if len(found) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(found), found)
	}
	want := map[string]bool{
		filepath.Join(root, "a", "metadata.xml"):         true,
		filepath.Join(root, "b", "deep", "metadata.xml"): true,
	}
	for _, f := range found {
		if !want[f] {
			t.Errorf("unexpected match %s", f)
		}
	}
}

func TestFind_ExactNameOnly(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "metadata.xml.bak"))
	touch(t, filepath.Join(root, "old_metadata.xml"))

	if found := collect(t, root, "metadata.xml"); len(found) != 0 {
		t.Errorf("expected no matches, got %v", found)
	}
}

func TestFind_DirectoryWithTargetNameIsNotAMatch(t *testing.T) {
	root := t.TempDir()
	// A directory named like the marker must be descended into, not yielded.
	touch(t, filepath.Join(root, "metadata.xml", "metadata.xml"))

	found := collect(t, root, "metadata.xml")
	if len(found) != 1 {
		t.Fatalf("expected 1 match, got %d: %v", len(found), found)
	}
	if found[0] != filepath.Join(root, "metadata.xml", "metadata.xml") {
		t.Errorf("expected nested file match, got %s", found[0])
	}
}

func TestFind_EarlyBreakStopsIteration(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a", "metadata.xml"))
	touch(t, filepath.Join(root, "b", "metadata.xml"))

	n := 0
	for _, err := range Find(root, "metadata.xml") {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n++
		break
	}
	if n != 1 {
		t.Errorf("expected a single yield before break, got %d", n)
	}
}
