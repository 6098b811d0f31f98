package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watchedProblem = `
problem: {
	name:   "countdown"
	domain: "numbers"
	numbers: {values: [2, 4], goal: %d}
}
search: strategy: "breadth_first"
`

func writeProblem(t *testing.T, path string, goal int) {
	t.Helper()
	content := []byte(fmt.Sprintf(watchedProblem, goal))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func TestWatch_RerunsOnChange(t *testing.T) {
	previous := WatchDebounce
	WatchDebounce = 20 * time.Millisecond
	t.Cleanup(func() { WatchDebounce = previous })

	dir := t.TempDir()
	path := filepath.Join(dir, "countdown.cue")
	writeProblem(t, path, 6)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *Result, 16)
	done := make(chan error, 1)
	r := newTestRunner()
	go func() {
		done <- r.Watch(ctx, path, Overrides{}, func(result *Result, err error) {
			if err != nil || result == nil {
				return
			}
			select {
			case results <- result:
			case <-ctx.Done():
			}
		})
	}()

	waitFor := func(status Status) {
		t.Helper()
		deadline := time.After(10 * time.Second)
		for {
			select {
			case result := <-results:
				if result.Status == status {
					return
				}
			case <-deadline:
				t.Fatalf("no %s result before deadline", status)
			}
		}
	}

	waitFor(StatusSolved)

	writeProblem(t, path, 3)
	waitFor(StatusUnsolved)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	r := newTestRunner()
	err := r.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "p.cue"), Overrides{}, func(*Result, error) {})
	assert.Error(t, err)
}
