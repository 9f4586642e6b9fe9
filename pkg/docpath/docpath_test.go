package docpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormatRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"/Child:0",
		"/Child:0/Row:3/Column:12",
		"/child:0/row:3", // lowercase accepted on parse
	}
	for _, s := range cases {
		p, err := Parse(s)
		require.NoError(t, err, s)
		if s == "" {
			assert.Empty(t, p)
			continue
		}
		_ = p.Format() // must not panic; canonical form re-parses cleanly
		reparsed, err := Parse(p.Format())
		require.NoError(t, err)
		assert.Equal(t, p, reparsed)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{
		"Child:0",       // missing leading slash
		"/Child",        // missing ':'
		"/Bogus:0",      // unknown kind
		"/Child:abc",    // non-numeric index
		"/Child:0/",     // trailing empty component
	}
	for _, s := range cases {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}
}

func TestFormatCanonicalCapitalization(t *testing.T) {
	p := Path{{Kind: Row, Index: 2}, {Kind: Column, Index: 5}}
	assert.Equal(t, "/Row:2/Column:5", p.Format())
}
