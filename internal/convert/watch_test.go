package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outcome struct {
	res Result
	err error
}

func next(t *testing.T, runs <-chan outcome) outcome {
	t.Helper()
	select {
	case o := <-runs:
		return o
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for a run")
		return outcome{}
	}
}

func TestWatchRerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	fieldsPath := writeFile(t, dir, "cv.yaml", fieldsYAML)
	cfg := Config{
		Fields:   fieldsPath,
		Template: writeTemplate(t, dir),
		OutDir:   dir,
		Output:   "out.docx",
		Logger:   quiet(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	runs := make(chan outcome, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cfg, 100*time.Millisecond, func(res Result, err error) {
			runs <- outcome{res, err}
		})
	}()

	first := next(t, runs)
	require.NoError(t, first.err)
	assert.Equal(t, filepath.Join(dir, "out.docx"), first.res.Output)
	assert.Contains(t, paragraphs(t, first.res.Output), "Go")

	require.NoError(t, os.WriteFile(fieldsPath, []byte(fieldsYAML+"additional_information: [Full UK driving licence]\n"), 0o644))
	second := next(t, runs)
	require.NoError(t, second.err)
	assert.NotEqual(t, first.res.RunID, second.res.RunID)
	assert.Equal(t, first.res.Output, second.res.Output)
	assert.Contains(t, paragraphs(t, second.res.Output), "Full UK driving licence")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchRejectsInvalidConfig(t *testing.T) {
	err := Watch(context.Background(), Config{Logger: quiet()}, 0, func(Result, error) {
		t.Fatal("no run expected")
	})
	require.Error(t, err)
}
