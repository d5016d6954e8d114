package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, path string, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parts.json")
	writeCatalogFile(t, path, `{"schemaVersion":"1.0.0","parts":[{"callout":"A-100"}]}`)

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()
	w.debouncePeriod = 50 * time.Millisecond

	reloaded := make(chan *Document, 4)
	w.OnReload(func(doc *Document) {
		reloaded <- doc
	})
	w.Start()

	writeCatalogFile(t, path, `{"schemaVersion":"1.0.0","parts":[{"callout":"A-100"},{"callout":"B-205"}]}`)

	select {
	case doc := <-reloaded:
		assert.Len(t, doc.Parts, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for catalog reload")
	}
}

func TestWatcherSkipsUnparseableWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parts.json")
	writeCatalogFile(t, path, `{"schemaVersion":"1.0.0","parts":[]}`)

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()
	w.debouncePeriod = 50 * time.Millisecond

	reloaded := make(chan *Document, 4)
	w.OnReload(func(doc *Document) {
		reloaded <- doc
	})
	w.Start()

	writeCatalogFile(t, path, `{not json`)

	select {
	case <-reloaded:
		t.Fatal("unparseable catalog should not trigger a reload callback")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherMissingFile(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
