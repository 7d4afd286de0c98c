package rewrite

import (
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePaths_RelativeLink_KnownDocument(t *testing.T) {
	got := ResolvePaths("./guide.md", "/", "intro.md")

	require.Equal(t, "guide.md", got.Relative)
	require.NotNil(t, got.Absolute)
	require.Equal(t, "/guide.md", *got.Absolute)
}

func TestResolvePaths_ParentTraversal_Collapses(t *testing.T) {
	got := ResolvePaths("../a/b.md", "/", "sub/doc.md")

	require.Equal(t, "a/b.md", got.Relative)
	require.Equal(t, "/a/b.md", *got.Absolute)
}

func TestResolvePaths_RelativeLink_UnknownDocument_NullAbsolute(t *testing.T) {
	got := ResolvePaths("guide.md", "/", "")

	require.Equal(t, "guide.md", got.Relative)
	require.Nil(t, got.Absolute)
}

func TestResolvePaths_AbsoluteLink_KnownDocument(t *testing.T) {
	got := ResolvePaths("/a/b.md", "/", "c/d.md")

	require.NotNil(t, got.Absolute)
	require.Equal(t, "/a/b.md", *got.Absolute)
	require.Equal(t, "../a/b.md", got.Relative)
}

func TestResolvePaths_AbsoluteLink_UnknownDocument_FallsBackToAbsolute(t *testing.T) {
	got := ResolvePaths("/docs/x.md", "/docs/", "")

	require.Equal(t, "/docs/x.md", got.Relative)
	require.NotNil(t, got.Absolute)
	require.Equal(t, "/docs/x.md", *got.Absolute)
}

func TestResolvePaths_NonRootBase_AnchorsAbsolute(t *testing.T) {
	got := ResolvePaths("guide.md", "/docs/", "sub/intro.md")

	require.Equal(t, "sub/guide.md", got.Relative)
	require.Equal(t, "/docs/sub/guide.md", *got.Absolute)
}

func TestResolvePaths_TrailingSlash_Preserved(t *testing.T) {
	got := ResolvePaths("sub/", "/", "a/doc.md")
	require.Equal(t, "a/sub/", got.Relative)
	require.Equal(t, "/a/sub/", *got.Absolute)

	got = ResolvePaths("/a/sub/", "/", "a/doc.md")
	require.Equal(t, "/a/sub/", *got.Absolute)
	require.Equal(t, "sub/", got.Relative)
}

func TestResolvePaths_DuplicateSeparators_Collapsed(t *testing.T) {
	got := ResolvePaths("a//b/./c.md", "/", "doc.md")

	require.Equal(t, "a/b/c.md", got.Relative)
	require.Equal(t, "/a/b/c.md", *got.Absolute)
}

func TestResolvePaths_EmptyBase_TreatedAsRoot(t *testing.T) {
	got := ResolvePaths("guide.md", "", "intro.md")

	require.Equal(t, "guide.md", got.Relative)
	require.Equal(t, "/guide.md", *got.Absolute)
}

func TestResolvePaths_AbsoluteRoundTrip(t *testing.T) {
	cases := []struct {
		raw, base, file string
	}{
		{"/a/b.md", "/", "c/d.md"},
		{"/docs/guide/setup.md", "/docs/", "guide/intro.md"},
		{"/x.html", "/", "deep/nested/doc.md"},
	}
	for _, tc := range cases {
		got := ResolvePaths(tc.raw, tc.base, tc.file)
		require.NotNil(t, got.Absolute, tc.raw)

		// Re-deriving the absolute form from the relative result and the same
		// document location must return the original absolute path.
		docDir := path.Dir(path.Join(tc.base, tc.file))
		rebuilt := path.Clean(path.Join(docDir, got.Relative))
		require.Equal(t, *got.Absolute, rebuilt, tc.raw)
	}
}
