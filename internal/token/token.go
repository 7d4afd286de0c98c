// Package token defines the anchor token stream model consumed by the link
// rewriter. A stream is produced from rendered markup, mutated in place, and
// serialized back; only anchor open/close markers are structured, everything
// else travels as opaque raw tokens.
package token

// Kind identifies the role of a token within a document stream.
type Kind string

const (
	// KindLinkOpen marks the opening tag of an anchor.
	KindLinkOpen Kind = "link_open"
	// KindLinkClose marks the closing tag of an anchor.
	KindLinkClose Kind = "link_close"
	// KindRaw carries markup the rewriter passes through untouched.
	KindRaw Kind = "raw"
)

// Attr is a single name/value attribute pair. Attribute order is preserved
// across mutation so serialization is deterministic.
type Attr struct {
	Name  string
	Value string
}

// Token is one anchor-open/anchor-close marker (or an opaque raw chunk) in an
// ordered document token stream. The rewriter borrows and mutates tokens in
// place; the stream retains ownership.
type Token struct {
	Kind  Kind
	Tag   string
	Attrs []Attr
	// Index is the token's position within the stream it was read from.
	Index int
	// Content holds the original markup for KindRaw tokens.
	Content string
}

// Attr returns the value of the named attribute and whether it is present.
func (t *Token) Attr(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, overwriting an existing value in place or
// appending when absent. Overwrite keeps the attribute's original position.
func (t *Token) SetAttr(name, value string) {
	for i := range t.Attrs {
		if t.Attrs[i].Name == name {
			t.Attrs[i].Value = value
			return
		}
	}
	t.Attrs = append(t.Attrs, Attr{Name: name, Value: value})
}

// RenameAttr renames an attribute, keeping its value and position. It reports
// whether the attribute was present.
func (t *Token) RenameAttr(oldName, newName string) bool {
	for i := range t.Attrs {
		if t.Attrs[i].Name == oldName {
			t.Attrs[i].Name = newName
			return true
		}
	}
	return false
}
