package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogErrorEntry(t *testing.T) {
	buf := new(bytes.Buffer)
	log, err := New(WithWriter(buf))
	if err != nil {
		t.Fatal(err)
	}
	LogError(log, "AuthenticationError/BadPassword", "log in", errors.New("wrong password"))
	LogError(log, "ignored", "nothing", nil)
	_ = log.Sync()

	out := buf.String()
	for _, want := range []string{"ERROR", "log in", "AuthenticationError/BadPassword", "wrong password"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if !strings.HasSuffix(out, Separator+"\n") {
		t.Fatalf("entry must end with the separator: %q", out)
	}
	if strings.Count(out, Separator) != 1 {
		t.Fatalf("expected exactly one entry: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := new(bytes.Buffer)
	log, err := New(WithWriter(buf), WithLevel("error"))
	if err != nil {
		t.Fatal(err)
	}
	log.Info("not written")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered: %q", buf.String())
	}

	buf.Reset()
	log, err = New(WithWriter(buf), WithLevel("bogus"))
	if err == nil {
		t.Fatalf("expected error for unknown level")
	}
	log.Error("still usable")
	if buf.Len() == 0 {
		t.Fatalf("fallback logger wrote nothing")
	}
}

func TestUnwritablePathIsSwallowed(t *testing.T) {
	// the parent is a regular file, so the log can never be created
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := writeFile(blocker); err != nil {
		t.Fatal(err)
	}
	log, err := New(WithPath(filepath.Join(blocker, "errors.log")))
	if err != nil {
		t.Fatal(err)
	}
	LogError(log, "StoreIOError", "save", errors.New("disk full"))
	_ = log.Sync()
}

func writeFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return f.Close()
}
