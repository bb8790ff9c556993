package cmd

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatch_RerendersOnChange(t *testing.T) {
	isolate(t)
	t.Setenv("RAWFMT_WATCH_DEBOUNCE", "20ms")
	writeFile(t, "note.txt", "hi #go")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- execute(ctx, "", &out, io.Discard, "watch", "note.txt")
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"#go"`)
	}, 2*time.Second, 10*time.Millisecond)
	require.True(t, strings.HasPrefix(out.String(), "== note.txt\n"))

	// Give the watcher time to register the directory before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile("note.txt", []byte("bye #rust"), 0o600))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"#rust"`)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatch_ReloadsCatalog(t *testing.T) {
	// Repeated runs must not inherit the cancelled context of the last one.
	for _, unicode := range []string{"🙂", "😀"} {
		t.Run(unicode, func(t *testing.T) {
			isolate(t)
			t.Setenv("RAWFMT_WATCH_DEBOUNCE", "20ms")
			writeFile(t, "note.txt", ":smile:")
			writeFile(t, "emoji.yaml", emojiCatalog)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var out syncBuffer
			done := make(chan error, 1)
			go func() {
				done <- execute(ctx, "", &out, io.Discard, "watch", "note.txt", "--mode", "plain", "--catalog", "emoji.yaml")
			}()

			require.Eventually(t, func() bool {
				return strings.Contains(out.String(), "😄")
			}, 2*time.Second, 10*time.Millisecond)

			time.Sleep(50 * time.Millisecond)
			require.NoError(t, os.WriteFile("emoji.yaml", []byte("emoji:\n  - name: smile\n    unicode: \""+unicode+"\"\n"), 0o600))

			require.Eventually(t, func() bool {
				return strings.Contains(out.String(), unicode)
			}, 2*time.Second, 10*time.Millisecond)

			cancel()
			require.NoError(t, <-done)
		})
	}
}

func TestWatch_Errors(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "watch", "missing.txt")
	require.ErrorContains(t, err, "reading")

	writeFile(t, "note.txt", "x")
	_, err = run(t, "", "watch", "note.txt", "--mode", "fancy")
	require.ErrorContains(t, err, "unknown watch mode")
}
