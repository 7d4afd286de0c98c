package routes

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "empty unchanged", path: "", want: ""},
		{name: "directory unchanged", path: "guide/", want: "guide/"},
		{name: "markdown becomes html", path: "guide.md", want: "guide.html"},
		{name: "nested markdown", path: "a/b/c.md", want: "a/b/c.html"},
		{name: "root readme", path: "README.md", want: "index.html"},
		{name: "nested readme collapses to directory", path: "docs/README.md", want: "docs/"},
		{name: "absolute readme collapses to root", path: "/README.md", want: "/"},
		{name: "readme is case insensitive", path: "a/readme.md", want: "a/"},
		{name: "index markdown collapses", path: "x/index.md", want: "x/"},
		{name: "html passes through", path: "a/b.html", want: "a/b.html"},
		{name: "index html collapses", path: "/x/index.html", want: "/x/"},
		{name: "extensionless gains html", path: "changelog", want: "changelog.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Infer(tt.path))
		})
	}
}

func TestInfer_NormalizesToNFC(t *testing.T) {
	decomposed := norm.NFD.String("café.md")
	require.NotEqual(t, "café.md", decomposed)

	require.Equal(t, "café.html", Infer(decomposed))
}
