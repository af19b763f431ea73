package storage

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/simpleshop/types"
)

func newTestDocument(t *testing.T) (*Document, *MockFileSystem, *MockFileLockFactory) {
	t.Helper()
	fs := NewMockFileSystem()
	locks := NewMockFileLockFactory()
	return NewDocument("shop/categories.json", WithFileSystem(fs), WithFileLockFactory(locks)), fs, locks
}

func TestDocumentLoad(t *testing.T) {
	t.Run("missing file loads as empty object", func(t *testing.T) {
		doc, _, _ := newTestDocument(t)
		obj, err := doc.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if obj.Len() != 0 {
			t.Errorf("expected empty object, got %d keys", obj.Len())
		}
	})

	t.Run("empty and null files load as empty object", func(t *testing.T) {
		for _, content := range []string{"", "  \n", "null", "null\n"} {
			doc, fs, _ := newTestDocument(t)
			fs.SetFile(doc.Path(), []byte(content))

			obj, err := doc.Load()
			if err != nil {
				t.Fatalf("content %q: unexpected error: %v", content, err)
			}
			if obj.Len() != 0 {
				t.Errorf("content %q: expected empty object", content)
			}
		}
	})

	t.Run("keeps key order", func(t *testing.T) {
		doc, fs, _ := newTestDocument(t)
		fs.SetFile(doc.Path(), []byte(`{"zeta": {}, "alpha": {}, "mid": {}}`))

		obj, err := doc.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, obj.Keys()); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid JSON is an error", func(t *testing.T) {
		doc, fs, _ := newTestDocument(t)
		fs.SetFile(doc.Path(), []byte(`{"broken":`))

		if _, err := doc.Load(); err == nil || !strings.Contains(err.Error(), "failed to parse JSON") {
			t.Errorf("expected parse error, got %v", err)
		}
	})

	t.Run("a top-level array is an error", func(t *testing.T) {
		doc, fs, _ := newTestDocument(t)
		fs.SetFile(doc.Path(), []byte(`[1, 2]`))

		if _, err := doc.Load(); err == nil {
			t.Error("expected error for non-object document")
		}
	})

	t.Run("read errors are wrapped", func(t *testing.T) {
		doc, fs, _ := newTestDocument(t)
		fs.SetFile(doc.Path(), []byte(`{}`))
		readErr := errors.New("disk on fire")
		fs.ReadFileError = readErr

		_, err := doc.Load()
		if !errors.Is(err, readErr) {
			t.Errorf("expected wrapped read error, got %v", err)
		}
	})

	t.Run("releases the file lock", func(t *testing.T) {
		doc, _, locks := newTestDocument(t)
		if _, err := doc.Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lock := locks.Lock(doc.Path() + ".lock")
		if lock.IsLocked() {
			t.Error("lock still held after load")
		}
		if lock.Attempts() != 1 {
			t.Errorf("expected 1 lock attempt, got %d", lock.Attempts())
		}
	})
}

func TestDocumentSave(t *testing.T) {
	t.Run("writes pretty printed JSON in insertion order", func(t *testing.T) {
		doc, fs, _ := newTestDocument(t)

		inner := types.NewObject()
		inner.Set("name", "Blocks")
		inner.Set("priority", 1)
		obj := types.NewObject()
		obj.Set("blocks", inner)
		obj.Set("armor", types.NewObject())

		if err := doc.Save(obj); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, ok := fs.FileContent(doc.Path())
		if !ok {
			t.Fatal("document not written")
		}
		want := "{\n  \"blocks\": {\n    \"name\": \"Blocks\",\n    \"priority\": 1\n  },\n  \"armor\": {}\n}"
		if diff := cmp.Diff(want, string(content)); diff != "" {
			t.Errorf("content mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		doc, fs, _ := newTestDocument(t)
		if err := doc.Save(types.NewObject()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{doc.Path()}, fs.FileNames()); diff != "" {
			t.Errorf("files mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("removes the temp file when rename fails", func(t *testing.T) {
		doc, fs, _ := newTestDocument(t)
		fs.RenameError = errors.New("rename denied")

		err := doc.Save(types.NewObject())
		if err == nil || !strings.Contains(err.Error(), "failed to rename file") {
			t.Fatalf("expected rename error, got %v", err)
		}
		if names := fs.FileNames(); len(names) != 0 {
			t.Errorf("expected no files, got %v", names)
		}
	})

	t.Run("write failure keeps the previous document", func(t *testing.T) {
		doc, fs, _ := newTestDocument(t)
		fs.SetFile(doc.Path(), []byte(`{"old": {}}`))
		fs.WriteFileError = errors.New("disk full")

		if err := doc.Save(types.NewObject()); err == nil {
			t.Fatal("expected error")
		}
		content, _ := fs.FileContent(doc.Path())
		if string(content) != `{"old": {}}` {
			t.Errorf("document changed: %s", content)
		}
	})

	t.Run("round trips through load", func(t *testing.T) {
		doc, _, _ := newTestDocument(t)
		obj := types.NewObject()
		obj.Set("b", "two")
		obj.Set("a", "one")
		if err := doc.Save(obj); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		loaded, err := doc.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"b", "a"}, loaded.Keys()); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("directory creation failure is reported", func(t *testing.T) {
		doc, fs, _ := newTestDocument(t)
		fs.MkdirAllError = os.ErrPermission

		if err := doc.Save(types.NewObject()); !errors.Is(err, os.ErrPermission) {
			t.Errorf("expected permission error, got %v", err)
		}
	})
}

func TestDocumentLocking(t *testing.T) {
	t.Run("gives up when another process holds the lock", func(t *testing.T) {
		doc, fs, locks := newTestDocument(t)
		lock := locks.Lock(doc.Path() + ".lock")
		lock.Hold()

		err := doc.Save(types.NewObject())
		if err == nil || !strings.Contains(err.Error(), "failed to acquire lock after 3 attempts") {
			t.Fatalf("expected lock error, got %v", err)
		}
		if lock.Attempts() != lockMaxRetries {
			t.Errorf("expected %d attempts, got %d", lockMaxRetries, lock.Attempts())
		}
		if fs.Writes() != 0 {
			t.Error("document written without the lock")
		}
	})

	t.Run("lock errors are wrapped", func(t *testing.T) {
		doc, _, locks := newTestDocument(t)
		lockErr := errors.New("lock broken")
		locks.Lock(doc.Path() + ".lock").SetLockError(lockErr)

		if _, err := doc.Load(); !errors.Is(err, lockErr) {
			t.Errorf("expected wrapped lock error, got %v", err)
		}
	})

	t.Run("works against the real file system", func(t *testing.T) {
		path := t.TempDir() + "/nested/categories.json"
		doc := NewDocument(path)

		obj := types.NewObject()
		obj.Set("blocks", types.NewObject())
		if err := doc.Save(obj); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		loaded, err := doc.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"blocks"}, loaded.Keys()); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLockManager(t *testing.T) {
	lm := NewLockManager()
	var wg sync.WaitGroup
	count := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = lm.Execute(WriteOperation, func() error {
				count++
				return nil
			})
		}()
	}
	wg.Wait()

	got := Read(lm, func() int { return count })
	if got != 50 {
		t.Errorf("expected 50, got %d", got)
	}

	sentinel := errors.New("boom")
	if err := lm.Execute(ReadOperation, func() error { return sentinel }); !errors.Is(err, sentinel) {
		t.Errorf("expected error to pass through, got %v", err)
	}
}
