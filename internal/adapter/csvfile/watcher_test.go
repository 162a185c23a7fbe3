package csvfile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	volumes := filepath.Join(dir, "volumes.csv")
	damages := filepath.Join(dir, "damages.csv")
	require.NoError(t, os.WriteFile(volumes, []byte("state,year,volume\n"), 0o644))
	require.NoError(t, os.WriteFile(damages, []byte("state,year,damages\n"), 0o644))

	w, err := NewWatcher([]string{volumes, damages}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(volumes, []byte("state,year,volume\nAL,2020,1\n"), 0o644))

	select {
	case <-w.Events():
	case <-time.After(5 * time.Second):
		t.Fatal("no reload signal after input file write")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	volumes := filepath.Join(dir, "volumes.csv")
	require.NoError(t, os.WriteFile(volumes, []byte("state,year,volume\n"), 0o644))

	w, err := NewWatcher([]string{volumes}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x\n"), 0o644))

	select {
	case <-w.Events():
		t.Fatal("unexpected signal for an unrelated file")
	case <-time.After(2 * debounceWindow):
	}
}
