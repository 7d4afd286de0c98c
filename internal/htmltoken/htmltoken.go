// Package htmltoken bridges rendered HTML and the anchor token stream: it
// lifts anchor tags into structured link tokens the rewriter can mutate and
// carries all other markup through byte-for-byte.
package htmltoken

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/linkrouter/internal/token"
)

// Tokenize reads rendered HTML and produces an ordered token stream. Anchor
// open/close tags become structured tokens with their attribute order
// preserved; everything else (text, other elements, comments) becomes opaque
// raw tokens.
func Tokenize(r io.Reader) ([]*token.Token, error) {
	z := html.NewTokenizer(r)

	var stream []*token.Token
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("tokenize html: %w", err)
			}
			return stream, nil

		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "a" {
				t := z.Token()
				tok := &token.Token{
					Kind:  token.KindLinkOpen,
					Tag:   "a",
					Index: len(stream),
				}
				for _, a := range t.Attr {
					tok.Attrs = append(tok.Attrs, token.Attr{Name: a.Key, Value: a.Val})
				}
				stream = append(stream, tok)
				continue
			}
			stream = append(stream, rawToken(z, len(stream)))

		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "a" {
				stream = append(stream, &token.Token{
					Kind:  token.KindLinkClose,
					Tag:   "a",
					Index: len(stream),
				})
				continue
			}
			stream = append(stream, rawToken(z, len(stream)))

		default:
			stream = append(stream, rawToken(z, len(stream)))
		}
	}
}

// rawToken copies the tokenizer's current raw bytes; they are only valid
// until the next call to Next.
func rawToken(z *html.Tokenizer, index int) *token.Token {
	return &token.Token{
		Kind:    token.KindRaw,
		Index:   index,
		Content: string(z.Raw()),
	}
}

// Serialize writes a token stream back to markup. Raw tokens are emitted
// verbatim; link tokens are re-emitted from their current (possibly
// rewritten) tag and attribute list.
func Serialize(w io.Writer, stream []*token.Token) error {
	var sb strings.Builder
	for _, tok := range stream {
		sb.Reset()
		switch tok.Kind {
		case token.KindRaw:
			sb.WriteString(tok.Content)
		case token.KindLinkOpen:
			sb.WriteByte('<')
			sb.WriteString(tok.Tag)
			for _, a := range tok.Attrs {
				sb.WriteByte(' ')
				sb.WriteString(a.Name)
				sb.WriteString(`="`)
				sb.WriteString(html.EscapeString(a.Value))
				sb.WriteByte('"')
			}
			sb.WriteByte('>')
		case token.KindLinkClose:
			sb.WriteString("</")
			sb.WriteString(tok.Tag)
			sb.WriteByte('>')
		}
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return fmt.Errorf("serialize token %d: %w", tok.Index, err)
		}
	}
	return nil
}
