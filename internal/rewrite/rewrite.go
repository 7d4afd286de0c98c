// Package rewrite classifies anchor tokens in a rendered document stream as
// internal or external and mutates them in place: external links gain
// safety/UX attributes, internal links become router-aware navigation
// elements with normalized route paths, and every internal target is recorded
// for downstream existence checking.
package rewrite

import (
	"log/slog"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/linkrouter/internal/errors"
	"git.home.luguber.info/inful/linkrouter/internal/routes"
	"git.home.luguber.info/inful/linkrouter/internal/token"
)

// InternalTag selects the element internal links are rewritten to.
type InternalTag string

const (
	// InternalTagAnchor keeps internal links as plain anchors with a
	// normalized href.
	InternalTagAnchor InternalTag = "a"
	// InternalTagRouteLink rewrites internal links to <RouteLink to="...">.
	InternalTagRouteLink InternalTag = "RouteLink"
	// InternalTagRouterLink is the synonymous router component spelling.
	InternalTagRouterLink InternalTag = "RouterLink"
)

// IsValid reports whether the tag is one of the supported spellings.
func (t InternalTag) IsValid() bool {
	switch t {
	case InternalTagAnchor, InternalTagRouteLink, InternalTagRouterLink:
		return true
	}
	return false
}

// isRouterComponent reports whether the tag triggers the router rewrite path
// (tag swap, href→to rename, base stripping, paired close-tag rewrite).
func (t InternalTag) isRouterComponent() bool {
	return t == InternalTagRouteLink || t == InternalTagRouterLink
}

// Classification is the outcome of handling one anchor-open token. Exactly
// one of the three holds for any href.
type Classification string

const (
	// ClassExternal: external attributes applied, tag unchanged, no record.
	ClassExternal Classification = "external"
	// ClassInternal: token rewritten and a link record appended.
	ClassInternal Classification = "internal"
	// ClassSkipped: token left completely untouched (missing href or no
	// path-like segment, e.g. a same-page `#section` anchor).
	ClassSkipped Classification = "skipped"
)

// LinkRecord is the raw/relative/absolute triple recorded per internal link.
// Absolute is nil when the current document's path is unknown and the link
// cannot be rooted at the site base. Records are never mutated once appended.
type LinkRecord struct {
	Raw      string  `json:"raw" yaml:"raw"`
	Relative string  `json:"relative" yaml:"relative"`
	Absolute *string `json:"absolute" yaml:"absolute"`
}

// Env is the per-document rendering environment shared by reference across
// all token callbacks for that document. A fresh Env must be supplied per
// document; sharing one across documents leaks recorded links.
type Env struct {
	// Base is the site base path. Empty means "/".
	Base string
	// FilePathRelative is the source-root-relative path of the document being
	// rendered, or "" when unknown.
	FilePathRelative string
	// Links collects one record per internal link, lazily created on first
	// use and consumed by the page-existence checker downstream.
	Links []LinkRecord
}

// Config carries the plugin options. The zero value selects all defaults.
type Config struct {
	// ExternalAttrs are applied in order to every external anchor-open token,
	// overwriting pre-existing values of the same name. Defaults to
	// target=_blank plus rel="noopener noreferrer". The slice keeps overwrite
	// order deterministic.
	ExternalAttrs []token.Attr
	// InternalTag selects the internal rewrite target. Defaults to RouteLink.
	InternalTag InternalTag
	// Classifier overrides external-link detection. Defaults to
	// SameOriginClassifier.
	Classifier ExternalLinkClassifier
	// InferRoutePath maps a document path to its served route path. Defaults
	// to routes.Infer.
	InferRoutePath func(string) string
}

// DefaultExternalAttrs returns the attribute set applied to external links
// when none are configured.
func DefaultExternalAttrs() []token.Attr {
	return []token.Attr{
		{Name: "target", Value: "_blank"},
		{Name: "rel", Value: "noopener noreferrer"},
	}
}

// Rewriter holds the immutable plugin configuration. One Rewriter is safe to
// share across concurrent per-document passes.
type Rewriter struct {
	externalAttrs []token.Attr
	internalTag   InternalTag
	classifier    ExternalLinkClassifier
	inferRoute    func(string) string
}

// New builds a Rewriter, applying defaults for unset options.
func New(cfg Config) (*Rewriter, error) {
	if cfg.InternalTag == "" {
		cfg.InternalTag = InternalTagRouteLink
	}
	if !cfg.InternalTag.IsValid() {
		return nil, errors.New(errors.CategoryConfig, errors.SeverityError,
			"unsupported internal link tag").WithContext("tag", string(cfg.InternalTag))
	}
	if cfg.ExternalAttrs == nil {
		cfg.ExternalAttrs = DefaultExternalAttrs()
	}
	if cfg.Classifier == nil {
		cfg.Classifier = SameOriginClassifier{}
	}
	if cfg.InferRoutePath == nil {
		cfg.InferRoutePath = routes.Infer
	}
	return &Rewriter{
		externalAttrs: cfg.ExternalAttrs,
		internalTag:   cfg.InternalTag,
		classifier:    cfg.Classifier,
		inferRoute:    cfg.InferRoutePath,
	}, nil
}

// Pass is the per-document transformation context: it pairs the document's
// Env with the open-internal-link flag so both token handlers share scoped
// state. Passes are single-use and not safe for concurrent use; concurrent
// document renders each need their own Pass and Env.
type Pass struct {
	r   *Rewriter
	env *Env
	// openInternal is set while the most recently opened anchor awaits its
	// close-tag rewrite. Anchors never nest in conformant markup, so a single
	// flag suffices; no stack is kept.
	openInternal bool
}

// NewPass creates a transformation pass over one document's token stream.
func (r *Rewriter) NewPass(env *Env) *Pass {
	return &Pass{r: r, env: env}
}

// pathSuffixPattern splits a href into a path portion (longest non-greedy
// prefix free of `#`/`?` ending in `/`, `.md`, or `.html`) and the remaining
// hash/query suffix. Hrefs without a path-like segment do not match and are
// left untouched. This is a documented parsing rule, not a general URL
// parser.
var pathSuffixPattern = regexp.MustCompile(`^([^#?]*?(?:/|\.md|\.html))([#?].*)?$`)

// digitFragmentPattern matches the hash fragment of a suffix (after any query
// string) when the fragment starts with a decimal digit.
var digitFragmentPattern = regexp.MustCompile(`^([^#]*#)(\d)`)

// LinkOpen handles one anchor-open token at position idx in the stream,
// mutating it in place per the configured rewrite rules. Side effects are
// confined to the token, the Env's link list, and the pass's open-link flag.
func (p *Pass) LinkOpen(tok *token.Token, idx int) Classification {
	href, ok := tok.Attr("href")
	if !ok {
		// Malformed token from a non-conformant tokenizer; degrade to no-op.
		return ClassSkipped
	}

	if p.r.classifier.Classify(href, p.env) {
		for _, a := range p.r.externalAttrs {
			tok.SetAttr(a.Name, a.Value)
		}
		return ClassExternal
	}

	m := pathSuffixPattern.FindStringSubmatch(href)
	if m == nil {
		// No path-like segment (e.g. a same-page `#section` anchor): neither
		// rewritten nor recorded.
		return ClassSkipped
	}
	rawPath, suffix := m[1], sanitizeSuffix(m[2])

	resolved := ResolvePaths(rawPath, p.env.Base, p.env.FilePathRelative)

	if p.r.internalTag.isRouterComponent() {
		tok.Tag = string(p.r.internalTag)
		tok.RenameAttr("href", "to")
		target := resolved.Relative
		if resolved.Absolute != nil {
			target = stripBase(*resolved.Absolute, p.env.Base)
		}
		tok.SetAttr("to", p.r.inferRoute(target)+suffix)
		p.openInternal = true
	} else {
		target := resolved.Relative
		if resolved.Absolute != nil {
			target = *resolved.Absolute
		}
		tok.SetAttr("href", p.r.inferRoute(target)+suffix)
	}

	p.env.Links = append(p.env.Links, LinkRecord{
		Raw:      href,
		Relative: resolved.Relative,
		Absolute: resolved.Absolute,
	})
	slog.Debug("Rewrote internal link",
		"href", href,
		"relative", resolved.Relative,
		"token_index", idx,
		"file", p.env.FilePathRelative)
	return ClassInternal
}

// LinkClose handles an anchor-close token: when the most recently opened
// anchor was rewritten to a router component, the closing tag is renamed to
// match and the flag cleared; otherwise it is a no-op.
func (p *Pass) LinkClose(tok *token.Token) {
	if !p.openInternal {
		return
	}
	tok.Tag = string(p.r.internalTag)
	p.openInternal = false
}

// Apply runs the pass over an entire token stream, dispatching on token kind.
// It returns the number of tokens per classification outcome.
func (p *Pass) Apply(stream []*token.Token) map[Classification]int {
	counts := make(map[Classification]int)
	for i, tok := range stream {
		switch tok.Kind {
		case token.KindLinkOpen:
			counts[p.LinkOpen(tok, i)]++
		case token.KindLinkClose:
			p.LinkClose(tok)
		}
	}
	return counts
}

// sanitizeSuffix escapes hash fragments starting with a decimal digit
// (`#123` → `#_123`, `?x=1#2` → `?x=1#_2`) to avoid colliding with the
// numeric-first-character restriction of the site's slug scheme. Query
// strings and non-digit fragments pass through unchanged.
func sanitizeSuffix(suffix string) string {
	return digitFragmentPattern.ReplaceAllString(suffix, "${1}_${2}")
}

// stripBase removes one leading occurrence of the site base from an absolute
// path, re-rooting it at "/" for route inference.
func stripBase(abs, base string) string {
	if base == "" || base == "/" || !strings.HasPrefix(abs, base) {
		return abs
	}
	return "/" + strings.TrimPrefix(abs, base)
}
