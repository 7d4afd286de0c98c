package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	meta, body, err := Split(input)
	require.NoError(t, err)
	require.Nil(t, meta)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_ParsesFields(t *testing.T) {
	input := []byte("---\npermalink: /custom/page/\ntitle: Hello\n---\n# Title\n")

	meta, body, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, "/custom/page/", meta["permalink"])
	require.Equal(t, "Hello", meta["title"])
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\nkey: value\n# Title\n")

	_, _, err := Split(input)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_ParsesFieldsAndBody(t *testing.T) {
	input := []byte("---\r\nkey: value\r\n---\r\n# Title\r\n")

	meta, body, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, "value", meta["key"])
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock_ReturnsEmptyMeta(t *testing.T) {
	input := []byte("---\n---\n# Title\n")

	meta, body, err := Split(input)
	require.NoError(t, err)
	require.NotNil(t, meta)
	require.Empty(t, meta)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_InvalidYAML_ReturnsError(t *testing.T) {
	input := []byte("---\nkey: [unclosed\n---\nbody\n")

	_, _, err := Split(input)
	require.Error(t, err)
}

func TestPermalink(t *testing.T) {
	p, ok := Permalink(map[string]any{"permalink": "/custom/"})
	require.True(t, ok)
	require.Equal(t, "/custom/", p)

	_, ok = Permalink(map[string]any{"permalink": ""})
	require.False(t, ok)

	_, ok = Permalink(map[string]any{"permalink": 42})
	require.False(t, ok)

	_, ok = Permalink(nil)
	require.False(t, ok)
}
