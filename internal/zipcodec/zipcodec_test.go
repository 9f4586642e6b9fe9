package zipcodec

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	ipath "github.com/docreveal/core/internal/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripPreservesOrder(t *testing.T) {
	order := []string{"z", "one", "two", "three", "a", "0"}
	contents := map[string][]byte{
		"z":     []byte("zzz"),
		"one":   []byte("111"),
		"two":   []byte("222"),
		"three": []byte("333"),
		"a":     []byte("aaa"),
		"0":     []byte("000"),
	}

	b := NewBuilder()
	for _, name := range order {
		b.Add(name, contents[name], zip.Deflate)
	}

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))

	r, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)

	require.Len(t, r.entries, len(order))
	for i, e := range r.entries {
		assert.Equal(t, order[i], e.rawName)

		rc, err := e.Stream()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, contents[e.rawName], data)
	}
}

func TestMimetypeStoredFirst(t *testing.T) {
	b := NewBuilder()
	b.Add("mimetype", []byte("application/vnd.oasis.opendocument.text"), zip.Store)
	b.Add("content.xml", []byte("<office/>"), zip.Deflate)

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))

	r, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	require.NotEmpty(t, r.entries)
	assert.Equal(t, "mimetype", r.entries[0].rawName)
	assert.Equal(t, MethodStored, r.entries[0].Method())
}

func TestFindByPath(t *testing.T) {
	b := NewBuilder()
	b.Add("META-INF/manifest.xml", []byte("<manifest/>"), zip.Deflate)

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))

	r, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)

	p, err := ipath.New("/META-INF/manifest.xml")
	require.NoError(t, err)
	_, ok := r.Find(p)
	assert.True(t, ok)
}
