package htmltoken

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/linkrouter/internal/token"
)

func TestTokenize_LiftsAnchorsAndKeepsRestRaw(t *testing.T) {
	input := `<p>See <a href="./guide.md" class="nav">the guide</a> now.</p>`

	stream, err := Tokenize(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, stream, 7)

	require.Equal(t, token.KindRaw, stream[0].Kind)
	require.Equal(t, "<p>", stream[0].Content)
	require.Equal(t, token.KindRaw, stream[1].Kind)
	require.Equal(t, "See ", stream[1].Content)

	open := stream[2]
	require.Equal(t, token.KindLinkOpen, open.Kind)
	require.Equal(t, "a", open.Tag)
	require.Equal(t, []token.Attr{
		{Name: "href", Value: "./guide.md"},
		{Name: "class", Value: "nav"},
	}, open.Attrs)
	require.Equal(t, 2, open.Index)

	require.Equal(t, token.KindRaw, stream[3].Kind)
	require.Equal(t, "the guide", stream[3].Content)
	require.Equal(t, token.KindLinkClose, stream[4].Kind)
	require.Equal(t, token.KindRaw, stream[5].Kind)
	require.Equal(t, " now.", stream[5].Content)
	require.Equal(t, token.KindRaw, stream[6].Kind)
	require.Equal(t, "</p>", stream[6].Content)
}

func TestTokenize_NonAnchorMarkup_PassesThroughVerbatim(t *testing.T) {
	input := "<h1>Title</h1>\n<!-- note -->\n<img src=\"x.png\">"

	stream, err := Tokenize(strings.NewReader(input))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Serialize(&out, stream))
	require.Equal(t, input, out.String())
}

func TestSerialize_RewrittenLink_EmitsNewTagAndAttrs(t *testing.T) {
	input := `<a href="./guide.md">guide</a>`
	stream, err := Tokenize(strings.NewReader(input))
	require.NoError(t, err)

	stream[0].Tag = "RouteLink"
	require.True(t, stream[0].RenameAttr("href", "to"))
	stream[0].SetAttr("to", "/guide.html")
	stream[2].Tag = "RouteLink"

	var out bytes.Buffer
	require.NoError(t, Serialize(&out, stream))
	require.Equal(t, `<RouteLink to="/guide.html">guide</RouteLink>`, out.String())
}

func TestSerialize_EscapesAttributeValues(t *testing.T) {
	stream := []*token.Token{
		{
			Kind:  token.KindLinkOpen,
			Tag:   "a",
			Attrs: []token.Attr{{Name: "href", Value: `/x?a=1&b="2"`}},
		},
		{Kind: token.KindLinkClose, Tag: "a"},
	}

	var out bytes.Buffer
	require.NoError(t, Serialize(&out, stream))
	require.Equal(t, `<a href="/x?a=1&amp;b=&#34;2&#34;"></a>`, out.String())
}

func TestTokenize_EmptyInput_EmptyStream(t *testing.T) {
	stream, err := Tokenize(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, stream)
}
