package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLocalFile(t *testing.T) {
	dir := t.TempDir()

	missing := NewLocalFile(filepath.Join(dir, "missing.json"))
	if _, err := missing.FetchIdentifiers(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("missing file error = %v, want ErrSourceUnavailable", err)
	}

	good := filepath.Join(dir, "containers.json")
	if err := os.WriteFile(good, []byte(`{"containers": ["web", "db"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	ids, err := NewLocalFile(good).FetchIdentifiers(context.Background())
	if err != nil {
		t.Fatalf("FetchIdentifiers() error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"web", "db"}) {
		t.Errorf("ids = %q", ids)
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte(`{"containers": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = NewLocalFile(corrupt).FetchIdentifiers(context.Background())
	if err == nil || errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("corrupt file error = %v, want parse error", err)
	}

	if _, err := NewLocalFile("").FetchIdentifiers(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("empty path error = %v, want ErrSourceUnavailable", err)
	}
}
