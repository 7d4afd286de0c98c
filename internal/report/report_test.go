package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/linkrouter/internal/rewrite"
)

func strptr(s string) *string { return &s }

func TestWriteJSON_RoundTripsReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.json")
	in := &Report{
		BuildID:     "build-1",
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Base:        "/docs/",
		Documents: []DocumentLinks{
			{
				Path:  "guide/intro.md",
				Route: "guide/intro.html",
				Links: []rewrite.LinkRecord{
					{Raw: "./setup.md", Relative: "setup.md", Absolute: strptr("/docs/guide/setup.md")},
				},
			},
		},
	}

	require.NoError(t, WriteJSON(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "\n"))

	var out Report
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, in.BuildID, out.BuildID)
	require.Equal(t, in.Base, out.Base)
	require.Equal(t, in.Documents, out.Documents)
}

func TestWriteJSON_UnresolvableLink_EmitsNullAbsolute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.json")
	in := &Report{
		BuildID: "build-1",
		Documents: []DocumentLinks{
			{
				Path:  "intro.md",
				Route: "intro.html",
				Links: []rewrite.LinkRecord{
					{Raw: "x.md", Relative: "x.md", Absolute: nil},
				},
			},
		},
	}

	require.NoError(t, WriteJSON(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"absolute": null`)
}
