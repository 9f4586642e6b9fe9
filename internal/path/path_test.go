package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []string{"/", "/mimetype", "/META-INF/manifest.xml", "ppt/media", "./ppt/media/image8.png", "../../other/directory", "a/b/../c"}
	for _, c := range cases {
		p, err := New(c)
		require.NoError(t, err)
		p2, err := New(p.String())
		require.NoError(t, err)
		assert.True(t, p.Equal(p2), "round-trip mismatch for %q -> %q", c, p.String())
	}
}

func TestJoinRoot(t *testing.T) {
	root, err := New("/")
	require.NoError(t, err)
	tmp, err := New("tmp")
	require.NoError(t, err)

	joined, err := root.Join(tmp)
	require.NoError(t, err)

	want, err := New("/tmp")
	require.NoError(t, err)
	assert.True(t, joined.Equal(want))
}

func TestJoinRejectsAbsolute(t *testing.T) {
	a, err := New("/a")
	require.NoError(t, err)
	b, err := New("/b")
	require.NoError(t, err)

	_, err = a.Join(b)
	assert.Error(t, err)
}

func TestRebaseUpwards(t *testing.T) {
	p, err := New("../../other/directory")
	require.NoError(t, err)
	ancestor, err := New("../..")
	require.NoError(t, err)

	tail, err := p.Rebase(ancestor)
	require.NoError(t, err)

	want, err := New("other/directory")
	require.NoError(t, err)
	assert.True(t, tail.Equal(want))
}

func TestRebaseSegments(t *testing.T) {
	p, err := New("./ppt/media/image8.png")
	require.NoError(t, err)
	ancestor, err := New("ppt/media")
	require.NoError(t, err)

	tail, err := p.Rebase(ancestor)
	require.NoError(t, err)

	want, err := New("image8.png")
	require.NoError(t, err)
	assert.True(t, tail.Equal(want))
}

func TestCommonRootAtMimetype(t *testing.T) {
	root, err := New("/")
	require.NoError(t, err)
	mimetype, err := New("/mimetype")
	require.NoError(t, err)

	assert.True(t, root.CommonRoot(mimetype).Equal(root))
}

func TestDotDotPastAbsoluteRootIsError(t *testing.T) {
	_, err := New("/../escape")
	assert.Error(t, err)
}

func TestJoinThenRebaseIsIdentity(t *testing.T) {
	a, err := New("word/media")
	require.NoError(t, err)
	b, err := New("image1.png")
	require.NoError(t, err)

	joined, err := a.Join(b)
	require.NoError(t, err)

	tail, err := joined.Rebase(a)
	require.NoError(t, err)
	assert.True(t, tail.Equal(b))
}

func TestBasenameAndExtension(t *testing.T) {
	p, err := New("word/media/image8.png")
	require.NoError(t, err)
	assert.Equal(t, "image8.png", p.Basename())
	assert.Equal(t, "png", p.Extension())

	root, err := New("/")
	require.NoError(t, err)
	assert.Equal(t, "", root.Basename())
}
