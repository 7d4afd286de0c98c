// Package frontmatter separates YAML frontmatter from markdown bodies before
// rendering. Only the fields linkrouter consumes are interpreted; everything
// else is carried in the parsed map untouched.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates `---` delimited YAML frontmatter from the Markdown body and
// parses it. If the document has no frontmatter, meta is nil and body is the
// full input. CRLF documents are handled.
func Split(content []byte) (meta map[string]any, body []byte, err error) {
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, nil
	}

	rest := content[len(open):]

	// Empty frontmatter block: the closing delimiter follows immediately.
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(rest, closeLine) {
		return map[string]any{}, rest[len(closeLine):], nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		return nil, nil, ErrMissingClosingDelimiter
	}

	raw := rest[: idx+len(nl) : idx+len(nl)]
	body = rest[idx+len(closeSeq):]

	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, body, nil
}

// Permalink returns the `permalink` frontmatter field when present and
// non-empty. A permalink overrides the route inferred from the document path.
func Permalink(meta map[string]any) (string, bool) {
	if meta == nil {
		return "", false
	}
	if s, ok := meta["permalink"].(string); ok && s != "" {
		return s, true
	}
	return "", false
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
