package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/conorfennell/studydeck/internal/domain"
)

type document struct {
	Title string          `json:"title"`
	Items []string        `json:"items"`
	Flags map[string]bool `json:"flags"`
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "db", "test.db"))
	if err != nil {
		t.Fatalf("Open() returned an unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]Store{
		"file":   NewFileStore(filepath.Join(dir, "files")),
		"sqlite": db,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			original := document{
				Title: "Vecka 35 – åäö <b>",
				Items: []string{"alpha", "beta", "gamma"},
				Flags: map[string]bool{"a": true, "b": false},
			}
			if err := store.Save("nested/dir/doc.json", original); err != nil {
				t.Fatalf("Save() returned an unexpected error: %v", err)
			}

			var loaded document
			found, err := store.Load("nested/dir/doc.json", &loaded)
			if err != nil {
				t.Fatalf("Load() returned an unexpected error: %v", err)
			}
			if !found {
				t.Fatal("Expected document to be found after Save")
			}
			if !reflect.DeepEqual(original, loaded) {
				t.Errorf("Expected %+v, but got %+v", original, loaded)
			}
		})
	}
}

func TestStoreOverwrite(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save("list.json", []string{"one", "two"}); err != nil {
				t.Fatalf("Save() returned an unexpected error: %v", err)
			}
			if err := store.Save("list.json", []string{"three"}); err != nil {
				t.Fatalf("Save() returned an unexpected error: %v", err)
			}
			var loaded []string
			if _, err := store.Load("list.json", &loaded); err != nil {
				t.Fatalf("Load() returned an unexpected error: %v", err)
			}
			if !reflect.DeepEqual(loaded, []string{"three"}) {
				t.Errorf("Expected [three], but got %v", loaded)
			}
		})
	}
}

func TestStoreMissingReturnsDefault(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			dst := []string{"default"}
			found, err := store.Load("missing.json", &dst)
			if err != nil {
				t.Fatalf("Load() returned an unexpected error: %v", err)
			}
			if found {
				t.Error("Expected missing document to report found=false")
			}
			if !reflect.DeepEqual(dst, []string{"default"}) {
				t.Errorf("Expected default to be left untouched, but got %v", dst)
			}
		})
	}
}

func TestStoreWrongShape(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save("shape.json", map[string]int{"a": 1}); err != nil {
				t.Fatalf("Save() returned an unexpected error: %v", err)
			}
			var list []string
			_, err := store.Load("shape.json", &list)
			if !errors.Is(err, domain.ErrFormat) {
				t.Errorf("Expected ErrFormat, but got %v", err)
			}
		})
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	var v any
	_, err := NewFileStore(dir).Load("bad.json", &v)
	if !errors.Is(err, domain.ErrFormat) {
		t.Errorf("Expected ErrFormat for corrupt file, but got %v", err)
	}
}

func TestFileStoreWritesReadableJSON(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	if err := store.Save("cards.json", []domain.Card{{Question: "Vad är <int>?", Answer: "Ett heltal", Tags: []string{}}}); err != nil {
		t.Fatalf("Save() returned an unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "cards.json"))
	if err != nil {
		t.Fatal(err)
	}
	expected := "[\n  {\n    \"q\": \"Vad är <int>?\",\n    \"a\": \"Ett heltal\",\n    \"tags\": []\n  }\n]\n"
	if string(data) != expected {
		t.Errorf("Expected file content:\n%s\nbut got:\n%s", expected, data)
	}
}

func TestFileStoreAbsoluteName(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(t.TempDir(), "elsewhere", "cards.json")
	store := NewFileStore(dir)

	if got := store.Path("cards.json"); got != filepath.Join(dir, "cards.json") {
		t.Errorf("Expected relative name inside %s, but got %s", dir, got)
	}
	if got := store.Path(outside); got != outside {
		t.Errorf("Expected absolute name unchanged, but got %s", got)
	}

	if err := store.Save(outside, []string{"a"}); err != nil {
		t.Fatalf("Save() returned an unexpected error: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Errorf("Expected document at %s, but got %v", outside, err)
	}
	var loaded []string
	found, err := store.Load(outside, &loaded)
	if err != nil || !found || len(loaded) != 1 {
		t.Errorf("Expected to load the absolute document back, but got %v %v %v", loaded, found, err)
	}
}
