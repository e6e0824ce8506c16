package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/recolor/internal/engine/buffer"
	"github.com/dshills/recolor/internal/engine/tracking"
	"github.com/dshills/recolor/internal/logging"
)

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newWatcher(t *testing.T, path string, delay time.Duration) *Watcher {
	t.Helper()
	w, err := New(path, WithDelay(delay), WithLogger(logging.Nop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{0, "NONE"},
		{OpWrite, "WRITE"},
		{OpCreate | OpRename, "CREATE|RENAME"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := New(filepath.Join(dir, "missing.java")); !errors.Is(err, ErrPathNotExist) {
		t.Errorf("New(missing) error = %v, want ErrPathNotExist", err)
	}
	if _, err := New(dir); !errors.Is(err, ErrIsDirectory) {
		t.Errorf("New(dir) error = %v, want ErrIsDirectory", err)
	}
}

func TestDebouncedWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A.java")
	other := filepath.Join(dir, "B.java")
	writeFile(t, path, "class A {}")
	w := newWatcher(t, path, 250*time.Millisecond)

	writeFile(t, other, "class B {}")
	for _, s := range []string{"class A { }", "class A {  }", "class A {   }"} {
		writeFile(t, path, s)
	}

	select {
	case ev := <-w.Events():
		if ev.Path != w.Path() || !ev.Op.Has(OpWrite) {
			t.Errorf("event = %+v, want a write to %s", ev, w.Path())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}

	select {
	case ev := <-w.Events():
		t.Errorf("unexpected second event %+v", ev)
	case <-time.After(time.Second):
	}
}

func TestCloseClosesChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A.java")
	writeFile(t, path, "x")
	w, err := New(path, WithLogger(logging.Nop()))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events() still open after Close")
	}
}

func TestFireRacesClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A.java")
	writeFile(t, path, "int a;")

	for range 200 {
		w, err := New(path, WithDelay(time.Microsecond), WithLogger(logging.Nop()))
		if err != nil {
			t.Fatal(err)
		}
		w.schedule(OpWrite)
		done := make(chan struct{})
		go func() {
			defer close(done)
			w.Flush()
		}()
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		<-done

		w.mu.Lock()
		w.pending = OpWrite
		w.mu.Unlock()
		w.fire()
	}
}

func TestFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A.java")
	writeFile(t, path, "int a = 1;\n")
	w := newWatcher(t, path, 50*time.Millisecond)

	buf := buffer.NewFromString("int a = 1;\n")
	tr := tracking.NewTracker(buf)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	revs := make(chan tracking.Revision, 16)
	done := make(chan error, 1)
	go func() {
		done <- Follow(ctx, w, tr, func(_ Event, r tracking.Revision) {
			select {
			case revs <- r:
			default:
			}
		})
	}()

	writeFile(t, path, "int a = 2;\n")
	deadline := time.Now().Add(5 * time.Second)
	for buf.String() != "int a = 2;\n" {
		if time.Now().After(deadline) {
			t.Fatalf("buffer = %q, want the new file content", buf.String())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(revs) == 0 {
		t.Error("no revision reported")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Follow() error = %v, want context.Canceled", err)
	}
}
