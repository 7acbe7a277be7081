package data

import (
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFS counts reads per file.
type countingFS struct {
	fstest.MapFS
	reads atomic.Int32
}

func (c *countingFS) ReadFile(name string) ([]byte, error) {
	c.reads.Add(1)
	return c.MapFS.ReadFile(name)
}

var _ fs.ReadFileFS = (*countingFS)(nil)

func TestStoreCachesDocuments(t *testing.T) {
	fsys := &countingFS{MapFS: fstest.MapFS{
		"enemies/destroyer.txt": file("components:\n  Hitpoints: {hp: 40}\n"),
	}}
	store := NewStore(fsys)

	first, err := store.Load("enemies/destroyer.txt")
	require.NoError(t, err)
	second, err := store.Load(`enemies\destroyer.txt`)
	require.NoError(t, err)
	third, err := store.Load("./enemies/../enemies/destroyer.txt")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, third)
	assert.Equal(t, int32(1), fsys.reads.Load())
	assert.True(t, store.Cached("enemies/destroyer.txt"))

	store.Reset()
	assert.False(t, store.Cached("enemies/destroyer.txt"))
	reloaded, err := store.Load("enemies/destroyer.txt")
	require.NoError(t, err)
	assert.NotSame(t, first, reloaded)
	assert.Equal(t, int32(2), fsys.reads.Load())
}

func TestStoreNotFound(t *testing.T) {
	store := NewStore(fstest.MapFS{})

	for _, name := range []string{"missing.txt", "../outside.txt", ""} {
		_, err := store.Load(name)
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf, name)
	}
}

func TestStoreDirectoryIsNotFound(t *testing.T) {
	store := NewStore(fstest.MapFS{"ships/hull.txt": {Data: []byte("components: {}\n")}})

	_, err := store.Load("ships")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ships", nf.Name)

	_, err = store.Load("ships/hull.txt")
	assert.NoError(t, err)
}

func TestStoreParseError(t *testing.T) {
	store := NewStore(fstest.MapFS{"bad.txt": file("components: {\n")})

	_, err := store.Load("bad.txt")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.False(t, store.Cached("bad.txt"))
}

func TestStoreConcurrentFirstLoad(t *testing.T) {
	fsys := &countingFS{MapFS: fstest.MapFS{"ship.txt": file("hp: 1\n")}}
	store := NewStore(fsys)

	const workers = 32
	docs := make([]*Document, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := store.Load("ship.txt")
			assert.NoError(t, err)
			docs[i] = doc
		}(i)
	}
	wg.Wait()

	for _, doc := range docs {
		assert.Same(t, docs[0], doc)
	}
	assert.Equal(t, int32(1), fsys.reads.Load())
}

func TestStoreNamesAndPreload(t *testing.T) {
	store := NewStore(fstest.MapFS{
		"player.txt":            file("hp: 1\n"),
		"enemies/destroyer.txt": file("hp: 2\n"),
		"weapons/laser.yaml":    file("hp: 3\n"),
		"README.md":             file("not a config"),
		"broken/bad.txt":        file("hp: [\n"),
	})

	names, err := store.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"broken/bad.txt", "enemies/destroyer.txt", "player.txt", "weapons/laser.yaml"}, names)

	loaded, err := store.Preload()
	assert.Equal(t, 3, loaded)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "broken/bad.txt", pe.Name)
	assert.True(t, store.Cached("player.txt"))
}
