package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttr_PresentAndAbsent(t *testing.T) {
	tok := &Token{Attrs: []Attr{{Name: "href", Value: "/x"}}}

	v, ok := tok.Attr("href")
	require.True(t, ok)
	require.Equal(t, "/x", v)

	_, ok = tok.Attr("target")
	require.False(t, ok)
}

func TestSetAttr_OverwriteKeepsPosition(t *testing.T) {
	tok := &Token{Attrs: []Attr{
		{Name: "href", Value: "/x"},
		{Name: "target", Value: "_self"},
		{Name: "class", Value: "nav"},
	}}

	tok.SetAttr("target", "_blank")

	require.Equal(t, []Attr{
		{Name: "href", Value: "/x"},
		{Name: "target", Value: "_blank"},
		{Name: "class", Value: "nav"},
	}, tok.Attrs)
}

func TestSetAttr_AppendsWhenAbsent(t *testing.T) {
	tok := &Token{Attrs: []Attr{{Name: "href", Value: "/x"}}}

	tok.SetAttr("rel", "noopener noreferrer")

	require.Equal(t, []Attr{
		{Name: "href", Value: "/x"},
		{Name: "rel", Value: "noopener noreferrer"},
	}, tok.Attrs)
}

func TestRenameAttr_KeepsValueAndPosition(t *testing.T) {
	tok := &Token{Attrs: []Attr{
		{Name: "class", Value: "nav"},
		{Name: "href", Value: "/guide.html"},
	}}

	require.True(t, tok.RenameAttr("href", "to"))
	require.Equal(t, []Attr{
		{Name: "class", Value: "nav"},
		{Name: "to", Value: "/guide.html"},
	}, tok.Attrs)

	require.False(t, tok.RenameAttr("missing", "other"))
}
